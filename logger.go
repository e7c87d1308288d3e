package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	// set level from env
	if x, exists := os.LookupEnv("LOG"); exists {
		_ = SetLogLevel(x)
	}
}

func SetLogLevel(s string) error {
	level, err := logrus.ParseLevel(strings.ToLower(s))
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}
