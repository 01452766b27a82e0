// Package prompt builds the single text request sent to the summarization model.
package prompt

import (
	"strconv"
	"strings"
)

// DefaultInstruction is the instruction the UI and CLI prefill.
const DefaultInstruction = "Summarize the meeting notes in clear and best understandable points."

const preamble = `You are an expert meeting and document summarizer. Your goal is to produce a human-level, professional, and actionable summary that reads as if written by a senior project manager, without sounding like AI-generated text.`

// Rules are the fixed formatting guidelines appended to every prompt, in order.
var Rules = []string{
	"Begin with a concise and descriptive title including meeting date, attendees, and topic if available.",
	"Provide Key Highlights as detailed descriptive sentences. Each one should fully explain discussions, decisions, insights, and context, as if summarizing for someone who did not attend.",
	"Clearly list Responsibilities, assigning tasks to specific individuals with deadlines where possible. Use natural, human language.",
	"Clearly state Action Items with actionable next steps for each relevant participant. Include timelines if mentioned.",
	"Maintain a professional, natural, and narrative style; avoid robotic, generic, or AI-like phrasing.",
	"Emphasize important numbers, dates, deadlines, names, and other critical details naturally within sentences.",
	"Use plain text only, no markdown, emojis, or formatting symbols such as asterisks, hashes, or underscores.",
	"Ensure every point and sentence provides context and reads fluidly.",
	"Make the summary cohesive, logically structured, and easy to read, as if written for executive-level understanding.",
	"Keep a human tone, including transitions and natural explanations, making it indistinguishable from a human-written summary.",
}

// Compose embeds text and instruction verbatim between the fixed preamble and the formatting rules.
func Compose(text, instruction string) string {
	var b strings.Builder
	b.Grow(len(text) + len(instruction) + 2048)
	b.WriteString(preamble)
	b.WriteString("\n\nContent:\n")
	b.WriteString(text)
	b.WriteString("\n\nUser Instruction:\n")
	b.WriteString(instruction)
	b.WriteString("\n\nGuidelines for creating the summary:\n")
	for i, rule := range Rules {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(rule)
		b.WriteByte('\n')
	}
	b.WriteString("\nGenerate the structured summary below based on these guidelines:\n")
	return b.String()
}
