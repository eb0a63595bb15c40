// Package template compiles field templates and uses them in both
// directions: rendering an example into chat messages, and parsing a model
// completion back into the example.
//
// A template is a block of text whose first line is the instruction and
// whose remaining lines each declare one field:
//
//	Answer questions with short factoid answers.
//	Context: {context}
//	Question: {question}
//	Answer: {answer} ${often between 1 and 5 words}
//
// The text before the slot is the field label, and the whitespace between
// label and slot is kept verbatim as the separator. A slot of the form
// {question -> query} reads the value from "question" but extracts into
// "query". An optional description containing a ${...} placeholder may
// follow the slot on the same line or start the next line; it is shown in
// the guidelines block in place of a real value.
//
// [Template.Query] renders a single example. [Template.Assemble] builds the
// full few-shot prompt from an example and its demonstrations, and
// [Template.Extract] splits a completion on the field labels.
package template
