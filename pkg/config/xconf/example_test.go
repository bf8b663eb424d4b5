package xconf_test

import (
	"fmt"

	"github.com/omeyang/xmanse/pkg/config/xconf"
)

func ExampleParse() {
	cfg, err := xconf.Parse([]byte("cache:\n  max_size: 500\n  ttl: 1h\n"), xconf.FormatYAML)
	if err != nil {
		panic(err)
	}
	fmt.Println(cfg.Cache.MaxSize, cfg.Cache.TTL, cfg.Dataset.LoadAttempts)
	// Output:
	// 500 1h0m0s 3
}
