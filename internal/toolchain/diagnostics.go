package toolchain

import (
	"fmt"
	"regexp"
)

var (
	linkerPattern  = regexp.MustCompile("linker `([^`]+)` not found")
	targetPattern  = regexp.MustCompile(`target may not be installed|can't find crate for .?(?:std|core)`)
	unknownTarget  = regexp.MustCompile(`(?:does not support target '|could not find specification for target ")([^'"]+)`)
	missingToolErr = regexp.MustCompile(`(?:no such command|is not installed for the toolchain)`)
)

// Diagnose turns raw cargo/rustup failure output into an operator hint.
// An empty string means no known pattern matched.
func Diagnose(output string) string {
	if m := linkerPattern.FindStringSubmatch(output); m != nil {
		return fmt.Sprintf("The cross linker %q is missing. Point .cargo/config.toml at the NDK clang for this target, or add the NDK toolchain bin directory to PATH.", m[1])
	}

	if targetPattern.MatchString(output) {
		return "The standard library for the target is missing. Run `rustup target add <triple>` or re-run the provision stage."
	}

	if m := unknownTarget.FindStringSubmatch(output); m != nil {
		return fmt.Sprintf("The toolchain does not know target %q. Check target_triple in relforge.yaml.", m[1])
	}

	if missingToolErr.MatchString(output) {
		return "A cargo subcommand is missing. Install it with `rustup component add rustfmt clippy`."
	}

	return ""
}
