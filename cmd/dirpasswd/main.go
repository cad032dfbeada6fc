package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/liut/dirpasswd/directory"
	zlog "github.com/liut/dirpasswd/log"
	"github.com/liut/dirpasswd/passwd"
)

var progname = filepath.Base(os.Args[0])

func main() {
	var (
		location = flag.String("l", "", "directory node `location` holding the account")
		authname = flag.String("u", "", "authenticate as `authname` instead of the target user")
		verbose  = flag.Bool("v", false, "verbose logging")
	)
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			defer l.Sync()
			zlog.SetLogger(l.Sugar())
		}
	}

	uname := flag.Arg(0)
	if uname == "" {
		if u, err := user.Current(); err == nil {
			uname = u.Username
		}
	}

	client, err := directory.NewClient(directory.NewConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", progname, err)
		os.Exit(1)
	}

	flow := &passwd.Flow{
		Service: passwd.DirectoryService(client),
		Options: passwd.Options{
			Username:   uname,
			Location:   *location,
			AuthName:   *authname,
			Privileged: os.Getuid() == 0,
		},
		Progname: progname,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}

	code := flow.Run()
	if code < 0 {
		usage()
		os.Exit(1)
	}
	os.Exit(code)
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-l location] [-u authname] [user]\n", progname)
	flag.PrintDefaults()
}
