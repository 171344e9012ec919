package ocp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/ocp"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/server"
)

type recordedRequest struct {
	method string
	path   string
	query  map[string]string
}

// newBackend returns a ToolServer wired to a fake OCP API that records the
// requests it receives.
func newBackend(t *testing.T, payload string, record *recordedRequest) *ToolServer {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if record != nil {
			record.method = r.Method
			record.path = r.URL.Path
			record.query = map[string]string{}
			for k, vs := range r.URL.Query() {
				record.query[k] = vs[0]
			}
		}
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	client, err := ocp.NewClient(srv.URL, "ak", "secret", ocp.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return NewToolServer(server.New("test", "0.0.0", nil), client, nil)
}

func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestHandleListClusters(t *testing.T) {
	var rec recordedRequest
	ts := newBackend(t, `{"data":{"contents":[{"id":1,"name":"c1"}]}}`, &rec)

	res, err := ts.handleListClusters(context.Background(), callReq(map[string]any{
		"page":   float64(2),
		"size":   float64(5),
		"name":   "c1",
		"status": "RUNNING,STOPPED",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), `"name": "c1"`)

	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/api/v2/ob/clusters", rec.path)
	assert.Equal(t, "2", rec.query["page"])
	assert.Equal(t, "5", rec.query["size"])
	assert.Equal(t, "c1", rec.query["name"])
	assert.Equal(t, "RUNNING,STOPPED", rec.query["status"])
}

func TestHandleListClustersDefaults(t *testing.T) {
	var rec recordedRequest
	ts := newBackend(t, `{"data":{"contents":[]}}`, &rec)

	_, err := ts.handleListClusters(context.Background(), callReq(nil))
	require.NoError(t, err)
	assert.Equal(t, "1", rec.query["page"])
	assert.Equal(t, "10", rec.query["size"])
	_, hasName := rec.query["name"]
	assert.False(t, hasName)
}

func TestHandleGetClusterZonesRequiresID(t *testing.T) {
	ts := newBackend(t, `{}`, nil)

	res, err := ts.handleGetClusterZones(context.Background(), callReq(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "cluster_id is required")
}

func TestHandleGetZoneServersPath(t *testing.T) {
	var rec recordedRequest
	ts := newBackend(t, `{"data":{}}`, &rec)

	_, err := ts.handleGetZoneServers(context.Background(), callReq(map[string]any{
		"cluster_id": float64(3),
		"zone_name":  "zone1",
	}))
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/ob/clusters/3/zones/zone1/servers", rec.path)
}

func TestHandleSetClusterParameters(t *testing.T) {
	var rec recordedRequest
	ts := newBackend(t, `{"successful":true}`, &rec)

	res, err := ts.handleSetClusterParameters(context.Background(), callReq(map[string]any{
		"cluster_id":      float64(1),
		"parameters_json": `[{"name":"major_freeze_duty_time","value":"02:00"}]`,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/api/v2/ob/clusters/1/parameters", rec.path)
}

func TestHandleSetClusterParametersRejectsBadInput(t *testing.T) {
	ts := newBackend(t, `{}`, nil)

	// Missing value field
	res, err := ts.handleSetClusterParameters(context.Background(), callReq(map[string]any{
		"cluster_id":      float64(1),
		"parameters_json": `[{"name":"x"}]`,
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	// Not JSON at all
	res, err = ts.handleSetClusterParameters(context.Background(), callReq(map[string]any{
		"cluster_id":      float64(1),
		"parameters_json": `not json`,
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleSetTenantParametersRequiresType(t *testing.T) {
	ts := newBackend(t, `{}`, nil)

	res, err := ts.handleSetTenantParameters(context.Background(), callReq(map[string]any{
		"cluster_id":      float64(1),
		"tenant_id":       float64(2),
		"parameters_json": `[{"name":"max_connections","value":2000}]`,
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "parameterType")
}

func TestHandleRunInspectionValidation(t *testing.T) {
	var rec recordedRequest
	ts := newBackend(t, `{"data":{}}`, &rec)

	res, err := ts.handleRunInspection(context.Background(), callReq(map[string]any{
		"inspection_object_type": "NOT_A_TYPE",
		"object_ids":             "1",
		"tag":                    float64(1),
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = ts.handleRunInspection(context.Background(), callReq(map[string]any{
		"inspection_object_type": "OB_CLUSTER",
		"object_ids":             "1,2",
		"tag":                    float64(7),
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = ts.handleRunInspection(context.Background(), callReq(map[string]any{
		"inspection_object_type": "OB_CLUSTER",
		"object_ids":             "1,2",
		"tag":                    float64(2),
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/v2/inspection/run", rec.path)
	assert.Equal(t, "OB_CLUSTER", rec.query["inspectionObjectType"])
	assert.Equal(t, "1,2", rec.query["objectIds"])
	assert.Equal(t, "2", rec.query["tag"])
}

func TestHandleGetAlarmsEncodesFilters(t *testing.T) {
	var rec recordedRequest
	ts := newBackend(t, `{"data":{"contents":[]}}`, &rec)

	_, err := ts.handleGetAlarms(context.Background(), callReq(map[string]any{
		"level":               float64(2),
		"is_subscribed_by_me": true,
		"status":              "ACTIVE",
	}))
	require.NoError(t, err)
	assert.Equal(t, "2", rec.query["level"])
	assert.Equal(t, "true", rec.query["isSubscribedByMe"])
	assert.Equal(t, "ACTIVE", rec.query["status"])
}

func TestHandleGetSQLTrendsPath(t *testing.T) {
	var rec recordedRequest
	ts := newBackend(t, `{"data":[]}`, &rec)

	_, err := ts.handleGetSQLTrends(context.Background(), callReq(map[string]any{
		"cluster_id": float64(1),
		"tenant_id":  float64(2),
		"sql_id":     "ABCDEF",
		"start_time": "2025-01-01T00:00:00+08:00",
		"end_time":   "2025-01-01T01:00:00+08:00",
		"db_name":    "app",
	}))
	require.NoError(t, err)
	assert.Equal(t, "/api/v2/ob/clusters/1/tenants/2/sqls/ABCDEF/trends", rec.path)
	assert.Equal(t, "app", rec.query["dbName"])
}

func TestHandleAPIErrorSurfacesAsToolError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"no permission"}}`))
	}))
	t.Cleanup(srv.Close)

	client, err := ocp.NewClient(srv.URL, "ak", "secret", ocp.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	ts := NewToolServer(server.New("test", "0.0.0", nil), client, nil)

	res, err := ts.handleGetClusterStats(context.Background(), callReq(map[string]any{
		"cluster_id": float64(1),
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "no permission")
}
