package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/duck-darkIRK/notepad-advise/pkg/model"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var validFormats = []string{formatText, formatJSON, formatYAML}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	phaseStyle    = lipgloss.NewStyle().Bold(true)
	creditsStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	fallbackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	subjectStyle  = lipgloss.NewStyle().PaddingLeft(4)
)

type subjectOutput struct {
	Id     string `json:"id" yaml:"id"`
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Weight uint64 `json:"weight" yaml:"weight"`
}

type phaseOutput struct {
	Index    uint64          `json:"index" yaml:"index"`
	Weight   uint64          `json:"weight" yaml:"weight"`
	Fallback bool            `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Subjects []subjectOutput `json:"subjects" yaml:"subjects"`
}

type studentOutput struct {
	Name  string          `json:"name" yaml:"name"`
	Error string          `json:"error,omitempty" yaml:"error,omitempty"`
	Paths [][]phaseOutput `json:"paths" yaml:"paths"`
}

func validateFormat(format string) error {
	if !lo.Contains(validFormats, format) {
		return errors.Errorf("%q is not a valid format, expected one of %v", format, validFormats)
	}
	return nil
}

func toOutput(catalog model.Catalog, paths []model.Path) [][]phaseOutput {
	return lo.Map(paths, func(path model.Path, _ int) []phaseOutput {
		return lo.Map(path, func(phase model.Phase, _ int) phaseOutput {
			return phaseOutput{
				Index:    phase.Index,
				Weight:   phase.Weight,
				Fallback: phase.Fallback,
				Subjects: lo.Map(phase.Subjects, func(id string, _ int) subjectOutput {
					subject := catalog.Subjects[id]
					return subjectOutput{Id: subject.Id, Name: subject.Name, Weight: subject.Weight}
				}),
			}
		})
	})
}

func renderPaths(w io.Writer, format string, catalog model.Catalog, paths []model.Path) error {
	output := toOutput(catalog, paths)
	if format == formatText {
		_, err := io.WriteString(w, renderText(output))
		return err
	}
	return encode(w, format, output)
}

func renderBatch(w io.Writer, format string, catalog model.Catalog, results []model.BatchResult) error {
	students := lo.Map(results, func(result model.BatchResult, _ int) studentOutput {
		student := studentOutput{Name: result.Name, Paths: toOutput(catalog, result.Paths)}
		if result.Err != nil {
			student.Error = result.Err.Error()
		}
		return student
	})

	if format != formatText {
		return encode(w, format, students)
	}

	var builder strings.Builder
	for _, student := range students {
		builder.WriteString(titleStyle.Render(student.Name) + "\n")
		if student.Error != "" {
			builder.WriteString(errorStyle.Render("  "+student.Error) + "\n")
			continue
		}
		builder.WriteString(renderText(student.Paths))
	}
	_, err := io.WriteString(w, builder.String())
	return err
}

func encode(w io.Writer, format string, value any) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return err
		}
		return encoder.Close()
	}
	return validateFormat(format)
}

func renderText(paths [][]phaseOutput) string {
	blocks := make([]string, 0, len(paths))
	for i, path := range paths {
		lines := []string{titleStyle.Render(fmt.Sprintf("Path %v", i+1))}
		if len(path) == 0 {
			lines = append(lines, creditsStyle.Render("  nothing left to take"))
		}

		for _, phase := range path {
			header := phaseStyle.Render(fmt.Sprintf("  Phase %v", phase.Index+1)) + " " +
				creditsStyle.Render(fmt.Sprintf("(%v credits)", phase.Weight))
			if phase.Fallback {
				header += " " + fallbackStyle.Render("out of range")
			}
			lines = append(lines, header)

			for _, subject := range phase.Subjects {
				lines = append(lines, subjectStyle.Render(fmt.Sprintf("%-8v %v (%v)", subject.Id, subject.Name, subject.Weight)))
			}
		}
		blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left, lines...))
	}
	return strings.Join(blocks, "\n\n") + "\n"
}
