package support

import (
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

func (testCtx *TestContext) theErrorShouldMentionMutuallyExclusive() error {
	return testCtx.theErrorShouldMention("mutually exclusive")
}

func (testCtx *TestContext) theErrorShouldMentionUnknownFormat() error {
	return testCtx.theErrorShouldMention("unknown barcode format")
}

// theUsageHintShouldBeShown verifies usage errors point at --help.
func (testCtx *TestContext) theUsageHintShouldBeShown() error {
	if !strings.Contains(testCtx.LastOutput, "Run 'barcli --help' for usage.") {
		return fmt.Errorf("usage hint missing\nOutput: %s", testCtx.LastOutput)
	}
	return nil
}

// theErrorShouldBeReportedOnce verifies a message appears exactly once.
func (testCtx *TestContext) theErrorShouldBeReportedOnce(text string) error {
	if n := strings.Count(testCtx.LastOutput, testCtx.substitute(text)); n != 1 {
		return fmt.Errorf("'%s' appears %d times\nOutput: %s", text, n, testCtx.LastOutput)
	}
	return nil
}

// RegisterErrorSteps registers error-specific steps.
func (testCtx *TestContext) RegisterErrorSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the error should mention mutually exclusive flags$`, testCtx.theErrorShouldMentionMutuallyExclusive)
	sc.Step(`^the error should mention an unknown barcode format$`, testCtx.theErrorShouldMentionUnknownFormat)
	sc.Step(`^the usage hint should be shown$`, testCtx.theUsageHintShouldBeShown)
	sc.Step(`^"([^"]*)" should be reported once$`, testCtx.theErrorShouldBeReportedOnce)
}
