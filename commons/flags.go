// SPDX-License-Identifier: GPL-3.0-only

package commons

import "slices"

// HasFlag reports whether a bare flag such as "--debug" is present in args.
func HasFlag(args []string, flag string) bool {
	return slices.Contains(args, flag)
}

// FlagValue returns the value following flag in args, e.g. "--env-file .env".
func FlagValue(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
