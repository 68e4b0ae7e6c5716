package testutil

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Program and store logs are noise in test output unless tests run verbose
func init() {
	logrus.SetLevel(logrus.TraceLevel)

	for _, arg := range os.Args {
		if arg == "-test.v" || strings.HasPrefix(arg, "-test.v=") && arg != "-test.v=false" {
			return
		}
	}
	logrus.StandardLogger().SetOutput(io.Discard)
}
