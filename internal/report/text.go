package report

import (
	"fmt"
	"strings"
)

func rule(ch string, width int) string {
	return strings.Repeat(ch, width) + "\n"
}

// RenderText produces the plain-text report: flat sections separated by fixed
// width rule lines, no anchors and no table of contents.
func RenderText(doc *Document) []byte {
	var sb strings.Builder

	sb.WriteString(rule("=", 100))
	sb.WriteString("PROJECT EXPORT FOR LLMs\n")
	sb.WriteString(rule("=", 100))
	sb.WriteString("\n")

	sb.WriteString("PROJECT INFORMATION:\n")
	sb.WriteString(rule("-", 50))
	fmt.Fprintf(&sb, "Project Name: %s\n", doc.ProjectName)
	fmt.Fprintf(&sb, "Generated On: %s\n", doc.timestamp(doc.GeneratedAt))
	fmt.Fprintf(&sb, "Total Files Processed: %d\n", doc.Stats.TotalFiles)
	fmt.Fprintf(&sb, "Export Tool: %s\n\n", doc.Tool)

	sb.WriteString("EXPORT CONFIGURATION:\n")
	sb.WriteString(rule("-", 50))
	fmt.Fprintf(&sb, "Language: %s\n", doc.Settings.Language)
	fmt.Fprintf(&sb, "Max File Size: %s\n", FormatSize(doc.Settings.MaxFileSize))
	fmt.Fprintf(&sb, "Include Hidden Files: %t\n", doc.Settings.IncludeHidden)
	fmt.Fprintf(&sb, "Output Format: %s\n", doc.Settings.OutputFormat)
	fmt.Fprintf(&sb, "Notification Level: %s\n", doc.Settings.NotificationLevel)
	fmt.Fprintf(&sb, "Custom File Name Pattern: %s\n\n", doc.Settings.FileNameTemplate)

	sb.WriteString(rule("=", 80))
	sb.WriteString("PROJECT STRUCTURE\n")
	sb.WriteString(rule("=", 80))
	sb.WriteString(RenderTree(doc.Nodes))

	s := doc.Stats
	sb.WriteString("\n")
	sb.WriteString(rule("=", 80))
	sb.WriteString("PROJECT STATISTICS\n")
	sb.WriteString(rule("=", 80))
	fmt.Fprintf(&sb, "Total Files: %d\n", s.TotalFiles)
	fmt.Fprintf(&sb, "Total Directories: %d\n", s.TotalDirectories)
	fmt.Fprintf(&sb, "Text Files: %d\n", s.TextFiles)
	fmt.Fprintf(&sb, "Binary Files: %d\n", s.BinaryFiles)
	fmt.Fprintf(&sb, "Total Size: %s\n\n", FormatSize(s.TotalSize))

	if len(s.FileTypes) > 0 {
		sb.WriteString("FILE TYPES DISTRIBUTION:\n")
		sb.WriteString(rule("-", 30))
		for _, ft := range s.FileTypes {
			fmt.Fprintf(&sb, "%-15s : %d\n", ft.Label(), ft.Count)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(rule("=", 80))
	sb.WriteString("FILE CODE CONTENTS\n")
	sb.WriteString(rule("=", 80))

	for _, m := range doc.Embedded() {
		fi := doc.fileInfo(m)

		sb.WriteString("\n\n")
		sb.WriteString(rule("=", 80))
		fmt.Fprintf(&sb, "FILE: %s\n", m.RelPath)
		sb.WriteString(rule("=", 80))

		sb.WriteString("\nFILE INFORMATION:\n")
		sb.WriteString(rule("-", 40))
		fmt.Fprintf(&sb, "Size: %s\n", fi.Size)
		fmt.Fprintf(&sb, "Extension: %s\n", fi.Extension)
		fmt.Fprintf(&sb, "Language: %s\n", fi.Language)
		fmt.Fprintf(&sb, "Location: %s\n", fi.Location)
		fmt.Fprintf(&sb, "Relative Path: %s\n", fi.Directory)
		fmt.Fprintf(&sb, "Created: %s\n", fi.Created)
		fmt.Fprintf(&sb, "Modified: %s\n", fi.Modified)
		fmt.Fprintf(&sb, "MD5: %s\n", fi.MD5)
		fmt.Fprintf(&sb, "SHA256: %s\n", fi.SHA256)
		fmt.Fprintf(&sb, "Encoding: %s\n", fi.Encoding)

		sb.WriteString("\nFILE CONTENT:\n")
		sb.WriteString(rule("-", 40))
		sb.Write(m.Content)
		sb.WriteString("\n")
		sb.WriteString(rule("=", 80))
	}

	if excluded := doc.Excluded(); len(excluded) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(rule("=", 80))
		sb.WriteString("BINARY/EXCLUDED FILES (not included in text content)\n")
		sb.WriteString(rule("=", 80))
		for _, rel := range excluded {
			fmt.Fprintf(&sb, "- %s\n", rel)
		}
	}

	return []byte(sb.String())
}
