// Package prompt renders the fixed instruction prompts sent for document
// analysis and packaging scoring.
package prompt

import (
	"strconv"
	"strings"
)

// MaxDocumentChars is the number of characters of an ESG report embedded in
// the analysis prompt. Longer documents are cut silently.
const MaxDocumentChars = 3500

const esgAnalysisHeader = `Below is the extracted text from a company's ESG report. Please provide:
1. A concise summary of the company's ESG performance.
2. A benchmarking analysis compared to industry standards or leaders (if possible).
3. Key recommendations for improvement.
Here is the ESG report:
-----
`

const esgAnalysisFooter = `
-----
`

const scoreInstructions = `
Based on these, provide:
1. A sustainability score out of 10 (with justification).
2. A brief assessment and recommendations for improvement.`

// RenderESGAnalysisPrompt asks for a summary, benchmark and recommendations
// for the first MaxDocumentChars characters of text.
func RenderESGAnalysisPrompt(text string) string {
	var b strings.Builder
	b.Grow(len(esgAnalysisHeader) + len(esgAnalysisFooter) + MaxDocumentChars)
	b.WriteString(esgAnalysisHeader)
	b.WriteString(Truncate(text, MaxDocumentChars))
	b.WriteString(esgAnalysisFooter)
	return b.String()
}

// RenderSustainabilityScorePrompt lists the packaging parameters and asks for a
// score out of 10 with an assessment. Inputs are not validated.
func RenderSustainabilityScorePrompt(material string, weightGrams float64, recyclable, renewable bool) string {
	var b strings.Builder
	b.WriteString("Packaging parameters:\n")
	b.WriteString("- Material: " + material + "\n")
	b.WriteString("- Weight: " + strconv.FormatFloat(weightGrams, 'f', -1, 64) + " grams\n")
	b.WriteString("- Recyclable: " + yesNo(recyclable) + "\n")
	b.WriteString("- Made from renewable resources: " + yesNo(renewable) + "\n")
	b.WriteString(scoreInstructions)
	return b.String()
}

// Truncate returns at most n characters of s, never splitting a rune.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
