// This package defines all the build info that this repo needs
// All variables must be capitalised and must use the `BuildInfo` type
// All validation of individual types must be handled by the init function
package build_info

import (
	"fmt"
	"regexp"
	"time"

	"github.com/samber/lo"
)

type BuildInfo string

func (value BuildInfo) String() string {
	return string(value)
}

// CLI_VERSION is injected at build time with -ldflags "-X ...".
var CLI_VERSION BuildInfo = "0.0.0"

// GO_MODE is injected at build time and selects the runtime mode.
var GO_MODE BuildInfo = "development"

var currentTime = time.Now()

// It's best never to change this variable at all!
var BUILD_DATE = BuildInfo(currentTime.Format(time.DateOnly))

func init() {
	var initalizedBuildDate = currentTime.Format(time.DateOnly)

	var allowedModes = []string{"development", "production", "debug"}

	var semverRegex = `^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-((?:0|[1-9]\d*|[0-9]*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|[0-9]*[a-zA-Z-][0-9a-zA-Z-]*))*))?(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`

	if match := regexp.MustCompile(semverRegex).MatchString(CLI_VERSION.String()); !match {
		panic(fmt.Sprintf("The cli version must be a valid semver string not %s", CLI_VERSION))
	}

	if !lo.Contains(allowedModes, GO_MODE.String()) {
		panic(fmt.Sprintf("The go mode must be either %v", allowedModes))
	}

	if BUILD_DATE.String() != initalizedBuildDate {
		panic("The build date must be the same as the current date.\nDon't change the build date")
	}
}
