package directory

import (
	zlog "github.com/liut/dirpasswd/log"
)

func logger() zlog.Logger {
	return zlog.GetLogger()
}
