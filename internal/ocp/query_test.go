package ocp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClusterQueryEncode(t *testing.T) {
	tests := []struct {
		name  string
		query ClusterQuery
		want  map[string]string
	}{
		{
			name:  "defaults",
			query: ClusterQuery{},
			want:  map[string]string{"page": "1", "size": "10"},
		},
		{
			name: "all fields",
			query: ClusterQuery{
				Page:   Page{Page: 3, Size: 50},
				Sort:   "name,asc",
				Name:   "prod",
				Status: []string{"RUNNING", "STOPPED"},
			},
			want: map[string]string{
				"page":   "3",
				"size":   "50",
				"sort":   "name,asc",
				"name":   "prod",
				"status": "RUNNING,STOPPED",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.query.Encode()); diff != "" {
				t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAlarmQueryEncode(t *testing.T) {
	subscribed := true
	q := AlarmQuery{
		Page:           Page{Page: 1, Size: 20},
		AppType:        "OB",
		Level:          2,
		Status:         []string{"ACTIVE"},
		SubscribedByMe: &subscribed,
		Keyword:        "disk",
	}
	want := map[string]string{
		"page":             "1",
		"size":             "20",
		"appType":          "OB",
		"level":            "2",
		"status":           "ACTIVE",
		"isSubscribedByMe": "true",
		"keyword":          "disk",
	}
	if diff := cmp.Diff(want, q.Encode()); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}

	// Unset tri-state and zero level are omitted entirely.
	minimal := AlarmQuery{}.Encode()
	if _, ok := minimal["isSubscribedByMe"]; ok {
		t.Error("unset SubscribedByMe should not be encoded")
	}
	if _, ok := minimal["level"]; ok {
		t.Error("zero Level should not be encoded")
	}
}

func TestMetricDataQueryEncode(t *testing.T) {
	q := MetricDataQuery{
		StartTime: "2025-01-01T00:00:00+08:00",
		EndTime:   "2025-01-01T01:00:00+08:00",
		Metrics:   []string{"sql_all_count", "sql_all_rt"},
		GroupBy:   []string{"ob_cluster_name"},
		Interval:  60,
		Labels:    "ob_cluster_name:c1",
	}
	got := q.Encode()
	if got["metrics"] != "sql_all_count,sql_all_rt" {
		t.Errorf("metrics = %q, want comma-joined list", got["metrics"])
	}
	if got["interval"] != "60" {
		t.Errorf("interval = %q, want 60", got["interval"])
	}
	if _, ok := got["minStep"]; ok {
		t.Error("zero MinStep should not be encoded")
	}
}

func TestSlowSQLQueryEncode(t *testing.T) {
	inner := false
	q := SlowSQLQuery{
		StartTime: "2025-01-01T00:00:00+08:00",
		EndTime:   "2025-01-02T00:00:00+08:00",
		Inner:     &inner,
		Limit:     100,
	}
	got := q.Encode()
	want := map[string]string{
		"startTime": "2025-01-01T00:00:00+08:00",
		"endTime":   "2025-01-02T00:00:00+08:00",
		"inner":     "false",
		"limit":     "100",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateParameters(t *testing.T) {
	if err := ValidateParameters(nil, false); err == nil {
		t.Error("empty parameter list should be rejected")
	}
	if err := ValidateParameters([]Parameter{{Value: 1}}, false); err == nil {
		t.Error("parameter without name should be rejected")
	}
	if err := ValidateParameters([]Parameter{{Name: "x"}}, false); err == nil {
		t.Error("parameter without value should be rejected")
	}
	if err := ValidateParameters([]Parameter{{Name: "x", Value: 1}}, true); err == nil {
		t.Error("tenant parameter without parameterType should be rejected")
	}
	if err := ValidateParameters([]Parameter{{Name: "x", Value: 1, ParameterType: "OB_TENANT_PARAMETER"}}, true); err != nil {
		t.Errorf("valid parameter rejected: %v", err)
	}
}

func TestValidateInspectionInputs(t *testing.T) {
	if err := ValidateInspectionObjectType("object_type", "OB_CLUSTER"); err != nil {
		t.Errorf("OB_CLUSTER rejected: %v", err)
	}
	err := ValidateInspectionObjectType("object_type", "NONSENSE")
	if err == nil {
		t.Fatal("unknown object type accepted")
	}
	var argErr *ArgumentError
	if !errors.As(err, &argErr) || argErr.Kind != InvalidEnum {
		t.Errorf("want InvalidEnum ArgumentError, got %v", err)
	}

	if err := ValidateInspectionTag("tag", 4); err != nil {
		t.Errorf("tag 4 rejected: %v", err)
	}
	err = ValidateInspectionTag("tag", 9)
	if err == nil {
		t.Fatal("tag 9 accepted")
	}
	if !errors.As(err, &argErr) || argErr.Kind != OutOfRange {
		t.Errorf("want OutOfRange ArgumentError, got %v", err)
	}
}
