package logger

import (
	"log"
	"os"
	"path/filepath"
)

var (
	Log = log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)
)

// Init redirects Log to the file at logpath. An empty path keeps stderr.
// The returned func closes the file.
func Init(logpath string) (func() error, error) {
	if logpath == "" {
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(logpath), 0o755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(logpath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	Log = log.New(file, "", log.LstdFlags|log.Lshortfile)
	Log.Println("LogFile : " + logpath)
	return file.Close, nil
}
