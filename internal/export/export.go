// Package export renders curricula and study schedules as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pathforge/internal/curriculum"
	"github.com/p-n-ai/pathforge/internal/recommend"
)

// Sheet names.
const (
	SheetModules  = "Modules"
	SheetTopics   = "Topics"
	SheetSchedule = "Schedule"
)

var (
	moduleHeader   = []any{"Order", "Module ID", "Title", "Difficulty", "Topics", "Estimated Hours", "Estimated Days"}
	topicHeader    = []any{"Module", "Topic ID", "Title", "Estimated Hours", "Locked", "Prerequisites", "Subtopics", "Resources"}
	scheduleHeader = []any{"Day", "Topic ID", "Topic", "Hours"}
)

// Workbook builds a workbook with a Modules and a Topics sheet. A non-nil
// schedule adds a Schedule sheet. The caller closes the file.
func Workbook(c curriculum.Curriculum, schedule *recommend.Schedule) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetModules); err != nil {
		f.Close()
		return nil, fmt.Errorf("renaming default sheet: %w", err)
	}
	if err := writeModules(f, c, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeTopics(f, c, bold); err != nil {
		f.Close()
		return nil, err
	}
	if schedule != nil {
		if err := writeSchedule(f, *schedule, bold); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   c.Title,
		Subject: c.TargetRole,
		Creator: "pathforge",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("setting document properties: %w", err)
	}
	return f, nil
}

// Write streams the workbook for c and schedule to w.
func Write(w io.Writer, c curriculum.Curriculum, schedule *recommend.Schedule) error {
	f, err := Workbook(c, schedule)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeModules(f *excelize.File, c curriculum.Curriculum, style int) error {
	rows := make([][]any, 0, len(c.Modules)+2)
	days := 0
	for _, m := range c.Modules {
		rows = append(rows, []any{m.Order, m.ID, m.Title, m.Difficulty, len(m.Topics), m.EstimatedHours, m.EstimatedDays})
		days += m.EstimatedDays
	}
	rows = append(rows, []any{}, []any{"Total", "", c.Title, c.Difficulty, c.TopicCount(), c.TotalEstimatedHours, days})
	if err := writeSheet(f, SheetModules, moduleHeader, rows, style); err != nil {
		return err
	}
	return f.SetColWidth(SheetModules, "C", "C", 36)
}

func writeTopics(f *excelize.File, c curriculum.Curriculum, style int) error {
	if _, err := f.NewSheet(SheetTopics); err != nil {
		return fmt.Errorf("creating %s sheet: %w", SheetTopics, err)
	}

	rows := make([][]any, 0, c.TopicCount())
	c.EachTopic(func(m *curriculum.Module, t *curriculum.Topic) {
		rows = append(rows, []any{
			m.Title,
			t.ID,
			t.Title,
			t.EstimatedHours,
			t.Locked,
			strings.Join(t.Prerequisites, ", "),
			strings.Join(t.Subtopics, ", "),
			len(t.Resources),
		})
	})
	if err := writeSheet(f, SheetTopics, topicHeader, rows, style); err != nil {
		return err
	}
	return f.SetColWidth(SheetTopics, "A", "C", 30)
}

func writeSchedule(f *excelize.File, s recommend.Schedule, style int) error {
	if _, err := f.NewSheet(SheetSchedule); err != nil {
		return fmt.Errorf("creating %s sheet: %w", SheetSchedule, err)
	}

	var rows [][]any
	for _, day := range s.Days {
		for _, t := range day.Topics {
			rows = append(rows, []any{day.Day, t.TopicID, t.TopicTitle, t.EstimatedHours})
		}
	}
	rows = append(rows, []any{}, []any{"Total", "", s.Pace, s.TotalHours})
	if s.Unscheduled > 0 {
		rows = append(rows, []any{"Unscheduled", "", fmt.Sprintf("%d topics", s.Unscheduled)})
	}
	return writeSheet(f, SheetSchedule, scheduleHeader, rows, style)
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
