package normalize

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gyeh/carestats/internal/model"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want model.Date
	}{
		{"20190401", 20190401},
		{"2019-04-01", 20190401},
		{"2019/4/1", 20190401},
		{"２０１９０４０１", 20190401},
		{" 20190401 ", 20190401},
		{"20190401.0", 20190401},
		{"2019-04-01T00:00:00", 20190401},
		{"0", 0},
		{"", 0},
		{"20190231", 0},
		{"unknown", 0},
	}
	for _, tt := range tests {
		if got := ParseDate(tt.in); got != tt.want {
			t.Errorf("ParseDate(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"42", 42, true},
		{"４２", 42, true},
		{"12.0", 12, true},
		{"12.5", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseInt(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseInt(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDistrictAndSchoolZone(t *testing.T) {
	if got := District("中央区本町一丁目"); got != "中央区" {
		t.Errorf("District = %q", got)
	}
	if got := District("本町自治会"); got != "" {
		t.Errorf("unmatched District = %q, want empty", got)
	}
	if got := SchoolZone("東小学校区"); got != "東小" {
		t.Errorf("SchoolZone = %q", got)
	}
	if got := SchoolZone("第一中学校区"); got != "" {
		t.Errorf("unmatched SchoolZone = %q, want empty", got)
	}
}

func TestBirthYearAndAge(t *testing.T) {
	if got := BirthYear("-5"); got != 0 {
		t.Errorf("BirthYear(-5) = %d, want 0", got)
	}
	if got := BirthYear("1950"); got != 1950 {
		t.Errorf("BirthYear(1950) = %d", got)
	}
	if got := Age(2020, 1950); got != 70 {
		t.Errorf("Age = %d, want 70", got)
	}
	if got := Age(2020, 0); got != -1 {
		t.Errorf("Age with unknown birth year = %d, want -1", got)
	}
}

func TestToStatusRow(t *testing.T) {
	runID := uuid.New()
	cert := &model.CertificationRecord{
		ResidentID:  1002,
		ValidMonths: 12,
		Period:      model.Period{Start: 20190401, End: 20200401},
	}
	s := &model.ResidentStatus{
		ResidentID:    1002,
		Status:        model.StatusCertified,
		Event:         model.ResidencyEvent{ResidentID: 1002, SequenceNo: 1, District: "中央区"},
		Certification: cert,
	}

	row := ToStatusRow(s, runID, 20200331, DefaultLabels())
	if row.Status != model.LabelCertified {
		t.Errorf("Status = %q", row.Status)
	}
	if row.PeriodEnd == nil || *row.PeriodEnd != 20200401 {
		t.Errorf("PeriodEnd = %v", row.PeriodEnd)
	}
	if row.RunID != runID.String() {
		t.Errorf("RunID = %q", row.RunID)
	}

	s.Status = model.StatusNotCertified
	row = ToStatusRow(s, runID, 20200331, DefaultLabels())
	if row.PeriodStart != nil || row.ValidMonths != nil {
		t.Error("certification fields should be nil for a non-certified resident")
	}
	if row.Status != model.LabelNotCertified {
		t.Errorf("Status = %q", row.Status)
	}
}
