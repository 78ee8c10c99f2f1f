package main

import (
	"os"
)

// env returns the value of an environment variable if provided (even if empty)
// or a fallback value.
func env(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return fallback
}

func defaultKeyPath() string {
	return env("ESTATECLI_PRIV_KEY", os.Getenv("HOME")+"/.estate.priv.key")
}

func defaultTmAddr() string {
	return env("ESTATECLI_TM_ADDR", "http://localhost:26657")
}
