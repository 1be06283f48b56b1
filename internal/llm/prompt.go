package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildFocusUserMessage packages one goal's raw focus fields as the JSON
// object the normalization prompt expects.
func BuildFocusUserMessage(req FocusRequest) string {
	b, _ := json.MarshalIndent(req, "", "    ")
	return "\n" + string(b) + "\n"
}

// BuildActionSummaryUserMessage asks for a 2-3 sentence narrative of a
// goal's action plan. Structured action/measure pairs are preferred; when
// none were extracted, the raw strategies text is sent instead.
func BuildActionSummaryUserMessage(req SummaryRequest) string {
	var payload any
	if len(req.Actions) > 0 {
		payload = req.Actions
	} else {
		payload = []string{req.RawActions}
	}
	encoded, _ := json.MarshalIndent(payload, "", "  ")

	var b strings.Builder
	b.WriteString("\nWrite a 2-3 sentence paragraph summarizing the actions that ")
	b.WriteString(req.SchoolName)
	b.WriteString(" plans to take in order to achieve the following outcome: \"")
	b.WriteString(req.Outcome)
	b.WriteString("\". \nThe summary should be based on the following actions and associated measures:\n")
	b.Write(encoded)
	b.WriteString("\n\nInclude only the paragraph itself. There should be no headers or other text. If there are multiple actions and measures, weave them together into a single narrative.\n\n")
	b.WriteString("If there are no actions or measures given, the paragraph should simply be \"Actions not identified. Check SIP document manually.\"\n")
	return b.String()
}

// BuildFocusSystemPrompt composes the focus-normalization system message:
// task framing, the closed vocabularies, and few-shot examples covering the
// tricky cases (race/ethnicity goals, partial grade bands, empty fields,
// and subgroup descriptions that still normalize to "All Students").
func BuildFocusSystemPrompt() string {
	var b strings.Builder
	b.WriteString(`
You are normalizing educational focus group/area descriptions for a school improvement plan dashboard.

Given school name, level, focus group, focus area, and desired outcome, determine the appropriate normalized grade and student group categories.
Use "All Grades" for focus_grades if the focus is on all grades (PK-5 or K-5 for elementary, 6-8 for middle, 9-12 for high) or doesn't specify particular grades.
focus_student_group could be: "Low Income", "ML", "Special Education" (for IEP, 504, or both), "Race/Ethnicity", or "All Students" if the focus is on all students or doesn't specify a particular student group.

The output should be a JSON object with two fields, focus_grades and focus_student_group.
`)

	for i, ex := range focusExamples {
		b.WriteString(fmt.Sprintf("\nExample #%d:\n", i+1))
		b.WriteString("<input>\n")
		b.WriteString(BuildFocusUserMessage(ex.req))
		b.WriteString("</input>\n<output>\n")
		out, _ := json.MarshalIndent(ex.out, "", "    ")
		b.Write(out)
		b.WriteString("\n</output>\n")
	}
	return b.String()
}

var focusExamples = []struct {
	req FocusRequest
	out FocusResult
}{
	{
		FocusRequest{
			SchoolName:  "Benjamin Franklin Elementary School",
			SchoolLevel: "Elementary School",
			FocusGroup:  "K-5",
			FocusArea:   "Family & Staff Opportunities to Participate/Engage the School and Staff Sense of Belonging",
			Outcome:     "Increased opportunities for families to provide voice and feedback while also participating in school-based decision-making and governance. Additionally, we will have an explicit focus on increasing sense of belonging amongst our staff members.",
		},
		FocusResult{FocusGrades: "All Grades", FocusStudentGroup: "All Students"},
	},
	{
		FocusRequest{
			SchoolName:  "Helen Keller Elementary School",
			SchoolLevel: "Elementary School",
			FocusGroup:  "K-5",
			FocusArea:   "Elevating Parent Voice of Black Students through Family Engagement",
			Outcome:     "By June 2026, 80% of Black/Black-Hispanic/Black two or more races students at Keller will demonstrate growth in social-emotional competencies related to belonging, self-efficacy, and school connectedness, as measured by SEL survey indicators, Panorama SEL data, and behavioral data (office referrals, proactive check-ins, attendance).",
		},
		FocusResult{FocusGrades: "All Grades", FocusStudentGroup: "Race/Ethnicity"},
	},
	{
		FocusRequest{
			SchoolName:  "Lakeview Elementary School",
			SchoolLevel: "Elementary School",
			FocusGroup:  "K-5",
			FocusArea:   "Reading and Literacy",
			Outcome:     "Close proficiency gap that currently exists between K/1st and 2-5 low-income students as measured by Fastbridge assessment (early reading for K-1 and aReading for 2-5).",
		},
		FocusResult{FocusGrades: "All Grades", FocusStudentGroup: "Low Income"},
	},
	{
		FocusRequest{
			SchoolName:  "Horance Mann Elementary School",
			SchoolLevel: "Elementary School",
			FocusGroup:  "Grades 3 through 5",
			FocusArea:   "Self-regulation and sense of belonging",
			Outcome:     "Increase in the percent of students who incorporate self-regulation strategies regularly and self-report that they are using these strategies on the Spring 2026 Panorama survey.",
		},
		FocusResult{FocusGrades: "Grades 3-5", FocusStudentGroup: "All Students"},
	},
	{
		FocusRequest{
			SchoolName:  "Timberline Middle School",
			SchoolLevel: "Middle School",
			FocusGroup:  "",
			FocusArea:   "6th - 8th Grade",
			Outcome:     "",
		},
		FocusResult{FocusGrades: "All Grades", FocusStudentGroup: "All Students"},
	},
	{
		FocusRequest{
			SchoolName:  "Explorer Community Elementary School",
			SchoolLevel: "Elementary School",
			FocusGroup:  "1st",
			FocusArea:   "Phonics and Phonemic Awareness",
			Outcome:     "By spring 2026, 100% of students will demonstrate growth, or maintain minimal risk, on the FastBridge early reading assessment.",
		},
		FocusResult{FocusGrades: "Grade 1", FocusStudentGroup: "All Students"},
	},
	{
		FocusRequest{
			SchoolName:  "Kamiakin Middle School",
			SchoolLevel: "Middle School",
			FocusGroup:  "Subgroup of 8th graders who had a C- or below in 7+ Math last year Subgroup of 6th and 7th graders who received a 1 or a 2 on the SBA last year",
			FocusArea:   "Algebra",
			Outcome:     "All students meeting standard in Algebra – passing grade in Algebra by 8th grade.",
		},
		FocusResult{FocusGrades: "All Grades", FocusStudentGroup: "All Students"},
	},
}
