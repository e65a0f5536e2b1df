// SPDX-License-Identifier: MPL-2.0

package cmdbuild

import (
	"strings"

	"github.com/toolrun/toolrun/pkg/tooldef"
)

// formatOption joins an option token with its value according to the
// delimiter policy. Only the space delimiter produces two arguments.
func formatOption(token string, d tooldef.Delimiter, value string) []string {
	switch d.Resolve(token) {
	case tooldef.DelimiterEquals:
		if strings.HasSuffix(token, "=") {
			return []string{token + value}
		}
		return []string{token + "=" + value}
	case tooldef.DelimiterColon:
		if strings.HasSuffix(token, ":") {
			return []string{token + value}
		}
		return []string{token + ":" + value}
	case tooldef.DelimiterNone:
		return []string{token + value}
	default:
		return []string{token, value}
	}
}
