package main

import (
	"errors"
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs"

	clientCmd "github.com/goto/diffpack/client/cmd"
	lerrors "github.com/goto/diffpack/client/local/errors"
)

const DefaultExitCode = 1

var errRequestFail = errors.New("🔥 unable to complete request successfully")

//nolint:forbidigo
func main() {
	command := clientCmd.New()

	if err := command.Execute(); err != nil {
		fmt.Println(errRequestFail)
		Exit(err)
	}
}

func Exit(err error) {
	var cmdErr *lerrors.CmdError
	if errors.As(err, &cmdErr) {
		os.Exit(cmdErr.Code)
		return
	}
	os.Exit(DefaultExitCode)
}
