package main

import "C"

import (
	"github.com/doeshing/skyrim-search-se/internal/pkg/logger"
)

// SkyrimSearchInit is called by the plugin loader. It returns 1 when the
// console hook is live and 0 when startup failed.
//
//export SkyrimSearchInit
func SkyrimSearchInit() C.int {
	if err := start(); err != nil {
		logger.NewStd(true).Error("startup failed", err, nil)
		return 0
	}
	return 1
}
