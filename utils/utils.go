package utils

import (
	"flag"
	"fmt"
	"os"

	"github.com/corvid-systems/edendiff/utils/constants"
)

// Utility function to create a new flag set, Will be used once per command.
func CreateCommandFlagSet(name, desc, usage string) *flag.FlagSet {
	// Define flagset
	fls := flag.NewFlagSet(name, flag.ExitOnError)
	fls.Usage = func() {
		fmt.Fprintf(os.Stderr, "\n%sDescription:%s\n\n\t %s\n\n", constants.BoldColor, constants.ResetColor, desc)
		fmt.Fprintf(os.Stderr, "%sUsage: %s%s%s\n\n", constants.BoldColor, constants.GreenColor, usage, constants.ResetColor)
		fls.PrintDefaults()
	}
	return fls
}
