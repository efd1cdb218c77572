package export_test

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pathforge/internal/curriculum"
	"github.com/p-n-ai/pathforge/internal/export"
	"github.com/p-n-ai/pathforge/internal/recommend"
)

func sampleCurriculum() curriculum.Curriculum {
	return curriculum.Curriculum{
		Title:               "Backend Developer Path",
		TargetRole:          "Backend Developer",
		Difficulty:          curriculum.Beginner,
		TotalEstimatedHours: 9.5,
		TotalEstimatedWeeks: 1,
		Modules: []curriculum.Module{{
			ID: "module_1", Title: "Programming Fundamentals", Order: 1, Difficulty: curriculum.Beginner,
			EstimatedHours: 9.5, EstimatedDays: 4,
			Topics: []curriculum.Topic{
				{ID: "topic_1_1", Title: "Python Basics", EstimatedHours: 4.5, Subtopics: []string{"Syntax", "Types"}},
				{ID: "topic_1_2", Title: "Data Structures", EstimatedHours: 5, Locked: true, Prerequisites: []string{"Python Basics"}},
			},
		}},
	}
}

func TestWrite_TotalRowSumsModuleDays(t *testing.T) {
	c := sampleCurriculum()
	c.TotalEstimatedWeeks = 1
	c.Modules = append(c.Modules, curriculum.Module{
		ID: "module_2", Title: "Web Basics", Order: 2, EstimatedHours: 3, EstimatedDays: 2,
		Topics: []curriculum.Topic{{ID: "topic_2_1", Title: "HTTP", EstimatedHours: 3}},
	})

	var buf bytes.Buffer
	if err := export.Write(&buf, c, nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(export.SheetModules)
	if err != nil {
		t.Fatalf("GetRows(Modules) error = %v", err)
	}
	var total []string
	for _, r := range rows {
		if len(r) > 0 && r[0] == "Total" {
			total = r
		}
	}
	if len(total) < 7 {
		t.Fatalf("total row = %v", total)
	}
	if total[4] != "3" || total[6] != "6" {
		t.Errorf("total row = %v, want 3 topics over 6 days", total)
	}
}

func TestWrite_CurriculumSheets(t *testing.T) {
	var buf bytes.Buffer
	if err := export.Write(&buf, sampleCurriculum(), nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != export.SheetModules || sheets[1] != export.SheetTopics {
		t.Fatalf("sheets = %v, want [Modules Topics]", sheets)
	}

	modules, err := f.GetRows(export.SheetModules)
	if err != nil {
		t.Fatalf("GetRows(Modules) error = %v", err)
	}
	if modules[0][0] != "Order" {
		t.Errorf("header = %v", modules[0])
	}
	if modules[1][2] != "Programming Fundamentals" || modules[1][4] != "2" {
		t.Errorf("module row = %v", modules[1])
	}

	topics, err := f.GetRows(export.SheetTopics)
	if err != nil {
		t.Fatalf("GetRows(Topics) error = %v", err)
	}
	if len(topics) != 3 {
		t.Fatalf("len(topics) = %d, want header plus 2", len(topics))
	}
	tests := []struct {
		row, col int
		want     string
	}{
		{1, 1, "topic_1_1"},
		{1, 3, "4.5"},
		{1, 6, "Syntax, Types"},
		{2, 4, "TRUE"},
		{2, 5, "Python Basics"},
	}
	for _, tt := range tests {
		if got := topics[tt.row][tt.col]; got != tt.want {
			t.Errorf("Topics[%d][%d] = %q, want %q", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestWrite_WithSchedule(t *testing.T) {
	schedule := recommend.StudySchedule(2, "moderate", []recommend.ScheduleTopic{
		{TopicID: "topic_1_1", TopicTitle: "Python Basics", EstimatedHours: 2},
		{TopicID: "topic_1_2", TopicTitle: "Data Structures", EstimatedHours: 1},
	})

	var buf bytes.Buffer
	if err := export.Write(&buf, sampleCurriculum(), &schedule); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(export.SheetSchedule)
	if err != nil {
		t.Fatalf("GetRows(Schedule) error = %v", err)
	}
	if rows[1][0] != "Monday" || rows[1][2] != "Python Basics" {
		t.Errorf("first schedule row = %v", rows[1])
	}
	if rows[2][0] != "Tuesday" || rows[2][2] != "Data Structures" {
		t.Errorf("second schedule row = %v", rows[2])
	}
}

func TestWorkbook_EmptyCurriculum(t *testing.T) {
	f, err := export.Workbook(curriculum.Curriculum{}, nil)
	if err != nil {
		t.Fatalf("Workbook() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(export.SheetTopics)
	if err != nil {
		t.Fatalf("GetRows(Topics) error = %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("len(rows) = %d, want header only", len(rows))
	}
}
