package export

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yiorgosm/ynabex/pkg/models"
)

var (
	isoDateRe      = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	dmyDateRe      = regexp.MustCompile(`(\d{2})-(\d{2})-(\d{4})`)
	trailingDateRe = regexp.MustCompile(`(_)?(\d{4}-\d{2}-\d{2}|\d{2}-\d{2}-\d{4})$`)
)

// DateFromFilename extracts the first YYYY-MM-DD or DD-MM-YYYY occurrence
// from a filename, returned in canonical YYYY-MM-DD form, or "" when absent.
func DateFromFilename(filename string) string {
	if m := isoDateRe.FindStringSubmatch(filename); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
	}
	if m := dmyDateRe.FindStringSubmatch(filename); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[3], m[2], m[1])
	}
	return ""
}

// OutputFilename builds the export path for an input statement:
// <stem>_<date>_ynab.csv next to the input (or in outputDir). A date already
// embedded in the input name is reused unless forceToday is set; otherwise
// today's date is used. Any trailing date in the stem is stripped first so
// re-exports do not stack dates.
func OutputFilename(inputPath string, outputDir string, forceToday bool) string {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	base := trailingDateRe.ReplaceAllString(stem, "")

	dateStr := ""
	if !forceToday {
		dateStr = DateFromFilename(stem)
	}
	if dateStr == "" {
		dateStr = time.Now().Format(models.DateLayout)
	}

	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s_ynab.csv", base, dateStr))
}

// ActualOutputFilename derives the Actual Budget variant of an export path.
func ActualOutputFilename(inputPath string, outputDir string, forceToday bool) string {
	name := OutputFilename(inputPath, outputDir, forceToday)
	return strings.TrimSuffix(name, "_ynab.csv") + "_actual.csv"
}
