package xmetrics

// String 创建字符串属性。
func String(key, value string) Attr { return Attr{Key: key, Value: value} }

// Bool 创建布尔属性。
func Bool(key string, value bool) Attr { return Attr{Key: key, Value: value} }

// Int 创建整数属性。
func Int(key string, value int) Attr { return Attr{Key: key, Value: value} }

// Uint64 创建 uint64 属性，超出 int64 范围时以字符串导出。
func Uint64(key string, value uint64) Attr { return Attr{Key: key, Value: value} }
