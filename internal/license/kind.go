// Package license holds the compiled-in table of supported licenses and
// the templates used to render them.
package license

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind indicates an identifier that does not name a supported license.
var ErrUnknownKind = errors.New("license: unknown license")

// Kind enumerates the supported licenses.
type Kind int

// Supported licenses, in display order.
const (
	MIT Kind = iota + 1
	Apache2
	BSD2Clause
	BSD3Clause
	BSD3ClauseAttribution
	BSD3ClauseModification
	BSD3ClauseNoMilitary
	ISC
)

var spdxIDs = map[Kind]string{
	MIT:                    "MIT",
	Apache2:                "Apache-2.0",
	BSD2Clause:             "BSD-2-Clause",
	BSD3Clause:             "BSD-3-Clause",
	BSD3ClauseAttribution:  "BSD-3-Clause-Attribution",
	BSD3ClauseModification: "BSD-3-Clause-Modification",
	BSD3ClauseNoMilitary:   "BSD-3-Clause-No-Military-License",
	ISC:                    "ISC",
}

// aliases maps lower-cased short names to kinds. SPDX identifiers are
// matched case-insensitively in addition to these.
var aliases = map[string]Kind{
	"apache":      Apache2,
	"apache2":     Apache2,
	"apache-2":    Apache2,
	"bsd2":        BSD2Clause,
	"bsd-2":       BSD2Clause,
	"bsd3":        BSD3Clause,
	"bsd-3":       BSD3Clause,
	"bsd":         BSD3Clause,
	"no-military": BSD3ClauseNoMilitary,
}

// String returns the SPDX identifier of the license.
func (k Kind) String() string {
	if id, ok := spdxIDs[k]; ok {
		return id
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the enumerated kinds.
func (k Kind) Valid() bool {
	_, ok := spdxIDs[k]
	return ok
}

// All returns every supported kind in display order.
func All() []Kind {
	return []Kind{
		MIT,
		Apache2,
		BSD2Clause,
		BSD3Clause,
		BSD3ClauseAttribution,
		BSD3ClauseModification,
		BSD3ClauseNoMilitary,
		ISC,
	}
}

// Parse resolves an SPDX identifier or alias to a Kind. Matching is
// case-insensitive.
func Parse(s string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return 0, fmt.Errorf("%w: empty identifier", ErrUnknownKind)
	}
	for _, k := range All() {
		if strings.ToLower(spdxIDs[k]) == key {
			return k, nil
		}
	}
	if k, ok := aliases[key]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q (run \"license list\" for supported identifiers)", ErrUnknownKind, s)
}
