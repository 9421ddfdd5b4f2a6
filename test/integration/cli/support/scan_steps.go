package support

import (
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// RegisterScanSteps wires the scanning step definitions into a scenario.
func (tc *TestContext) RegisterScanSteps(sc *godog.ScenarioContext) {
	sc.Step(`^an image containing a QR code with text "([^"]*)"$`, tc.anImageContainingAQRCode)
	sc.Step(`^a blank image$`, tc.aBlankImage)
	sc.Step(`^I run zxscan with arguments "([^"]*)"$`, tc.iRunZxscan)
	sc.Step(`^the command should succeed$`, tc.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, tc.theCommandShouldFail)
	sc.Step(`^the output should contain "([^"]*)"$`, tc.theOutputShouldContain)
	sc.Step(`^the error should contain "([^"]*)"$`, tc.theErrorShouldContain)
}

func (tc *TestContext) anImageContainingAQRCode(text string) error {
	return tc.writeQRImage(text)
}

func (tc *TestContext) aBlankImage() error {
	return tc.writeBlankImage()
}

func (tc *TestContext) iRunZxscan(argLine string) error {
	return tc.runCommand(argLine)
}

func (tc *TestContext) theCommandShouldSucceed() error {
	if tc.lastErr != nil {
		return fmt.Errorf("command failed: %v\noutput:\n%s", tc.lastErr, tc.output.String())
	}
	return nil
}

func (tc *TestContext) theCommandShouldFail() error {
	if tc.lastErr == nil {
		return fmt.Errorf("command unexpectedly succeeded\noutput:\n%s", tc.output.String())
	}
	return nil
}

func (tc *TestContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(tc.output.String(), expected) {
		return fmt.Errorf("output does not contain %q:\n%s", expected, tc.output.String())
	}
	return nil
}

func (tc *TestContext) theErrorShouldContain(expected string) error {
	if tc.lastErr == nil {
		return fmt.Errorf("no error recorded")
	}
	combined := tc.lastErr.Error() + "\n" + tc.output.String()
	if !strings.Contains(combined, expected) {
		return fmt.Errorf("error does not contain %q: %v", expected, tc.lastErr)
	}
	return nil
}
