package ocp

import (
	"strconv"
	"strings"
)

// Page holds common pagination parameters. Zero values fall back to the
// first page of ten items, matching the API defaults.
type Page struct {
	Page int
	Size int
}

func (p Page) apply(params map[string]string) {
	page, size := p.Page, p.Size
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	params["page"] = strconv.Itoa(page)
	params["size"] = strconv.Itoa(size)
}

func setIfSet(params map[string]string, key, value string) {
	if value != "" {
		params[key] = value
	}
}

func setList(params map[string]string, key string, values []string) {
	if len(values) > 0 {
		params[key] = strings.Join(values, ",")
	}
}

// ClusterQuery filters the cluster list endpoint.
type ClusterQuery struct {
	Page
	Sort   string
	Name   string
	Status []string
}

// Encode returns the query parameters for the request.
func (q ClusterQuery) Encode() map[string]string {
	params := map[string]string{}
	q.Page.apply(params)
	setIfSet(params, "sort", q.Sort)
	setIfSet(params, "name", q.Name)
	setList(params, "status", q.Status)
	return params
}

// TenantQuery filters tenant list endpoints, both the global one and the
// per-cluster one.
type TenantQuery struct {
	Page
	Sort   string
	Name   string
	Mode   string
	Status []string
}

func (q TenantQuery) Encode() map[string]string {
	params := map[string]string{}
	q.Page.apply(params)
	setIfSet(params, "sort", q.Sort)
	setIfSet(params, "name", q.Name)
	setIfSet(params, "mode", q.Mode)
	setList(params, "status", q.Status)
	return params
}

// ServerQuery filters the cluster server list by location.
type ServerQuery struct {
	RegionName string
	IDCName    string
}

func (q ServerQuery) Encode() map[string]string {
	params := map[string]string{}
	setIfSet(params, "regionName", q.RegionName)
	setIfSet(params, "idcName", q.IDCName)
	return params
}

// MetricGroupQuery selects monitoring metric groups.
type MetricGroupQuery struct {
	Page
	Type     string
	Scope    string
	Sort     string
	Target   string
	TargetID int
}

func (q MetricGroupQuery) Encode() map[string]string {
	params := map[string]string{"type": q.Type, "scope": q.Scope}
	q.Page.apply(params)
	setIfSet(params, "sort", q.Sort)
	setIfSet(params, "target", q.Target)
	if q.TargetID > 0 {
		params["targetId"] = strconv.Itoa(q.TargetID)
	}
	return params
}

// MetricDataQuery selects metric series over a time range. StartTime and
// EndTime are ISO 8601 timestamps; Labels and Metrics are comma-joined
// lists of label=value pairs and metric names.
type MetricDataQuery struct {
	StartTime string
	EndTime   string
	Metrics   []string
	GroupBy   []string
	Interval  int
	Labels    string
	MinStep   int
	MaxPoints int
}

func (q MetricDataQuery) Encode() map[string]string {
	params := map[string]string{
		"startTime": q.StartTime,
		"endTime":   q.EndTime,
		"metrics":   strings.Join(q.Metrics, ","),
		"groupBy":   strings.Join(q.GroupBy, ","),
		"interval":  strconv.Itoa(q.Interval),
		"labels":    q.Labels,
	}
	if q.MinStep > 0 {
		params["minStep"] = strconv.Itoa(q.MinStep)
	}
	if q.MaxPoints > 0 {
		params["maxPoints"] = strconv.Itoa(q.MaxPoints)
	}
	return params
}

// AlarmQuery filters the alarm list. A zero Level means unfiltered;
// SubscribedByMe is tri-state so nil leaves it out.
type AlarmQuery struct {
	Page
	AppType        string
	Scope          string
	Level          int
	Status         []string
	ActiveAtStart  string
	ActiveAtEnd    string
	SubscribedByMe *bool
	Keyword        string
}

func (q AlarmQuery) Encode() map[string]string {
	params := map[string]string{}
	q.Page.apply(params)
	setIfSet(params, "appType", q.AppType)
	setIfSet(params, "scope", q.Scope)
	if q.Level > 0 {
		params["level"] = strconv.Itoa(q.Level)
	}
	setList(params, "status", q.Status)
	setIfSet(params, "activeAtStart", q.ActiveAtStart)
	setIfSet(params, "activeAtEnd", q.ActiveAtEnd)
	if q.SubscribedByMe != nil {
		params["isSubscribedByMe"] = strconv.FormatBool(*q.SubscribedByMe)
	}
	setIfSet(params, "keyword", q.Keyword)
	return params
}

// InspectionTaskQuery filters the inspection task list.
type InspectionTaskQuery struct {
	ObjectTypes []string
	Tags        []string
	TaskStates  []string
	Name        string
}

func (q InspectionTaskQuery) Encode() map[string]string {
	params := map[string]string{}
	setList(params, "inspectionObjectTypes", q.ObjectTypes)
	setList(params, "tags", q.Tags)
	setList(params, "taskStates", q.TaskStates)
	setIfSet(params, "name", q.Name)
	return params
}

// InspectionOverviewQuery filters the inspection overview.
type InspectionOverviewQuery struct {
	ObjectIDs      []string
	ObjectType     string
	ScheduleStates []string
	Name           string
	ParentName     string
}

func (q InspectionOverviewQuery) Encode() map[string]string {
	params := map[string]string{}
	setList(params, "objectIds", q.ObjectIDs)
	setIfSet(params, "inspectionObjectType", q.ObjectType)
	setList(params, "scheduleStates", q.ScheduleStates)
	setIfSet(params, "name", q.Name)
	setIfSet(params, "parentName", q.ParentName)
	return params
}

// TopSQLQuery selects TopSQL statistics for a tenant over a time range.
type TopSQLQuery struct {
	StartTime string
	EndTime   string
	ServerID  int
	Inner     *bool
	SQLText   string
	SearchAttr string
	SearchOp   string
	SearchVal  string
}

func (q TopSQLQuery) Encode() map[string]string {
	params := map[string]string{
		"startTime": q.StartTime,
		"endTime":   q.EndTime,
	}
	if q.ServerID > 0 {
		params["serverId"] = strconv.Itoa(q.ServerID)
	}
	if q.Inner != nil {
		params["inner"] = strconv.FormatBool(*q.Inner)
	}
	setIfSet(params, "sqlText", q.SQLText)
	setIfSet(params, "searchAttr", q.SearchAttr)
	setIfSet(params, "searchOp", q.SearchOp)
	setIfSet(params, "searchVal", q.SearchVal)
	return params
}

// SlowSQLQuery selects slow queries for a tenant over a time range.
type SlowSQLQuery struct {
	StartTime        string
	EndTime          string
	ServerID         int
	Inner            *bool
	SQLText          string
	FilterExpression string
	Limit            int
	SQLTextLength    int
}

func (q SlowSQLQuery) Encode() map[string]string {
	params := map[string]string{
		"startTime": q.StartTime,
		"endTime":   q.EndTime,
	}
	if q.ServerID > 0 {
		params["serverId"] = strconv.Itoa(q.ServerID)
	}
	if q.Inner != nil {
		params["inner"] = strconv.FormatBool(*q.Inner)
	}
	setIfSet(params, "sqlText", q.SQLText)
	setIfSet(params, "filterExpression", q.FilterExpression)
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
	if q.SQLTextLength > 0 {
		params["sqlTextLength"] = strconv.Itoa(q.SQLTextLength)
	}
	return params
}

// Parameter is one name/value pair for cluster or tenant parameter updates.
// ParameterType is required for tenant parameters and ignored for cluster
// parameters.
type Parameter struct {
	Name          string `json:"name"`
	Value         any    `json:"value"`
	ParameterType string `json:"parameterType,omitempty"`
}

// ValidateParameters checks a parameter list before it is sent.
// needType requires ParameterType on every entry.
func ValidateParameters(params []Parameter, needType bool) error {
	if len(params) == 0 {
		return MissingArgument("parameters")
	}
	for i, p := range params {
		if p.Name == "" {
			return MissingArgument("parameters[" + strconv.Itoa(i) + "].name")
		}
		if p.Value == nil {
			return MissingArgument("parameters[" + strconv.Itoa(i) + "].value")
		}
		if needType && p.ParameterType == "" {
			return MissingArgument("parameters[" + strconv.Itoa(i) + "].parameterType")
		}
	}
	return nil
}

// Inspection object types and tag identifiers accepted by the inspection
// endpoints.
var (
	InspectionObjectTypes = []string{"OB_CLUSTER", "OB_TENANT", "HOST", "OB_PROXY"}
	InspectionTags        = []int{1, 2, 3, 4}
)

// ValidateInspectionObjectType rejects unknown inspection object types.
func ValidateInspectionObjectType(field, value string) error {
	for _, t := range InspectionObjectTypes {
		if value == t {
			return nil
		}
	}
	return InvalidEnumValue(field, value+" is not one of "+strings.Join(InspectionObjectTypes, ", "))
}

// ValidateInspectionTag rejects tag identifiers outside 1..4.
func ValidateInspectionTag(field string, tag int) error {
	for _, t := range InspectionTags {
		if tag == t {
			return nil
		}
	}
	return ValueOutOfRange(field, "must be one of 1, 2, 3, 4")
}
