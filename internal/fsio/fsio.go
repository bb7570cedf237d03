package fsio

import (
	"os"
)

// Hooks for filesystem operations
// used for testing
var (
	Open       = os.Open
	ReadFile   = os.ReadFile
	WriteFile  = os.WriteFile
	StatFile   = os.Stat
	ReadDir    = os.ReadDir
	Remove     = os.Remove
	RemoveAll  = os.RemoveAll
	Rename     = os.Rename
	MkdirAll   = os.MkdirAll
	MkdirTemp  = os.MkdirTemp
	IsNotExist = os.IsNotExist
	Exists     = func(path string) bool { _, err := StatFile(path); return err == nil }
	IsDir      = func(path string) bool { fi, err := StatFile(path); return err == nil && fi.IsDir() }
)
