package okctl

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/okctl"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

const operatorManifestURL = "https://raw.githubusercontent.com/oceanbase/ob-operator/stable/deploy/operator.yaml"

// allowedComponents is the set okctl knows how to install and update.
var allowedComponents = map[string]bool{
	"ob-operator":            true,
	"ob-dashboard":           true,
	"local-path-provisioner": true,
	"cert-manager":           true,
}

func (ts *ToolServer) registerInstallComponent() {
	tool := mcp.NewTool("install_component",
		mcp.WithDescription("Install an OceanBase component. Supported components are ob-operator, ob-dashboard, local-path-provisioner and cert-manager. When no component is given, ob-operator and ob-dashboard are installed."),
		mcp.WithString("component_name", mcp.Description("Name of the component to install"),
			mcp.Enum("ob-operator", "ob-dashboard", "local-path-provisioner", "cert-manager")),
		mcp.WithString("version", mcp.Description("Version of the component")),
	)
	ts.server.AddTool(tool, ts.handleInstallComponent)
}

func (ts *ToolServer) handleInstallComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	component := tools.StringOr(req, "component_name", "")
	args := []string{"install"}
	if component != "" {
		if !allowedComponents[component] {
			return mcp.NewToolResultError(fmt.Sprintf("component %s is not supported", component)), nil
		}
		args = append(args, component)
	}
	if v := tools.StringOr(req, "version", ""); v != "" {
		args = append(args, "--version", v)
	}
	out, err := ts.runner.Run(ctx, "okctl", args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to install component: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerUpdateComponent() {
	tool := mcp.NewTool("update_component",
		mcp.WithDescription("Update an OceanBase component. Supported components are ob-operator, ob-dashboard, local-path-provisioner and cert-manager. When no component is given, ob-operator and ob-dashboard are updated."),
		mcp.WithString("component_name", mcp.Description("Name of the component to update"),
			mcp.Enum("ob-operator", "ob-dashboard", "local-path-provisioner", "cert-manager")),
	)
	ts.server.AddTool(tool, ts.handleUpdateComponent)
}

func (ts *ToolServer) handleUpdateComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	component := tools.StringOr(req, "component_name", "")
	args := []string{"update"}
	if component != "" {
		if !allowedComponents[component] {
			return mcp.NewToolResultError(fmt.Sprintf("component %s is not supported", component)), nil
		}
		args = append(args, component)
	}
	out, err := ts.runner.Run(ctx, "okctl", args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update component: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerCheckComponentInstalled() {
	tool := mcp.NewTool("check_component_installed",
		mcp.WithDescription("Check whether okctl or ob-operator is installed. Run this before using the other tools for the first time."),
		mcp.WithString("component_name", mcp.Required(), mcp.Description("Component to check"),
			mcp.Enum("okctl", "ob-operator")),
	)
	ts.server.AddTool(tool, ts.handleCheckComponentInstalled)
}

func (ts *ToolServer) handleCheckComponentInstalled(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	component := tools.StringOr(req, "component_name", "")
	switch component {
	case "okctl":
		if _, err := exec.LookPath("okctl"); err != nil {
			return mcp.NewToolResultText("okctl is not installed"), nil
		}
		return mcp.NewToolResultText("okctl is installed"), nil
	case "ob-operator":
		if ts.kube != nil {
			installed, err := ts.kube.OperatorInstalled(ctx)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to check ob-operator: %v", err)), nil
			}
			if installed {
				return mcp.NewToolResultText("ob-operator is installed"), nil
			}
			return mcp.NewToolResultText("ob-operator is not installed"), nil
		}
		if _, err := ts.runner.Run(ctx, "kubectl", "get", "deployment", "-n", "oceanbase", "ob-operator"); err != nil {
			return mcp.NewToolResultText("ob-operator is not installed"), nil
		}
		return mcp.NewToolResultText("ob-operator is installed"), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("component %s is not supported, use okctl or ob-operator", component)), nil
	}
}

func (ts *ToolServer) registerInstallOBOperator() {
	tool := mcp.NewTool("install_ob_operator",
		mcp.WithDescription("Install ob-operator into the cluster by applying its release manifest"),
	)
	ts.server.AddTool(tool, ts.handleInstallOBOperator)
}

func (ts *ToolServer) handleInstallOBOperator(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if ts.kube != nil {
		installed, err := ts.kube.OperatorInstalled(ctx)
		if err == nil && installed {
			return mcp.NewToolResultText("ob-operator is already installed"), nil
		}
	}
	out, err := ts.runner.Run(ctx, "kubectl", "apply", "-f", operatorManifestURL)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to install ob-operator: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerListOBClusterResources() {
	tool := mcp.NewTool("list_obcluster_resources",
		mcp.WithDescription("List OBCluster custom resources in a namespace directly from the Kubernetes API"),
		mcp.WithString("namespace", mcp.Description("Namespace to list OBCluster resources from (default \"default\")")),
		mcp.WithString("output_format", mcp.Description("Result encoding (default \"json\")"), mcp.Enum("json", "yaml")),
	)
	ts.server.AddTool(tool, ts.handleListOBClusterResources)
}

func (ts *ToolServer) handleListOBClusterResources(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if ts.kube == nil {
		return mcp.NewToolResultError("Kubernetes client is not available"), nil
	}
	namespace := tools.StringOr(req, "namespace", "default")
	if err := okctl.ValidateIdentifier(namespace, "namespace"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	clusters, err := ts.kube.ListOBClusters(ctx, namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list OBCluster resources: %v", err)), nil
	}
	return tools.FormatResult(clusters, tools.StringOr(req, "output_format", "json"))
}

func (ts *ToolServer) registerGetOBClusterResource() {
	tool := mcp.NewTool("get_obcluster_resource",
		mcp.WithDescription("Get a single OBCluster custom resource directly from the Kubernetes API, including its full spec and status"),
		mcp.WithString("cluster_name", mcp.Required(), mcp.Description("Name of the OBCluster resource")),
		mcp.WithString("namespace", mcp.Description("Namespace of the OBCluster resource (default \"default\")")),
		mcp.WithString("output_format", mcp.Description("Result encoding (default \"json\")"), mcp.Enum("json", "yaml")),
	)
	ts.server.AddTool(tool, ts.handleGetOBClusterResource)
}

func (ts *ToolServer) handleGetOBClusterResource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if ts.kube == nil {
		return mcp.NewToolResultError("Kubernetes client is not available"), nil
	}
	name, namespace, errRes := clusterScope(req)
	if errRes != nil {
		return errRes, nil
	}
	cluster, err := ts.kube.GetOBCluster(ctx, namespace, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get OBCluster resource: %v", err)), nil
	}
	return tools.FormatResult(cluster, tools.StringOr(req, "output_format", "json"))
}

func (ts *ToolServer) registerListOBTenantResources() {
	tool := mcp.NewTool("list_obtenant_resources",
		mcp.WithDescription("List OBTenant custom resources in a namespace directly from the Kubernetes API"),
		mcp.WithString("namespace", mcp.Description("Namespace to list OBTenant resources from (default \"default\")")),
		mcp.WithString("output_format", mcp.Description("Result encoding (default \"json\")"), mcp.Enum("json", "yaml")),
	)
	ts.server.AddTool(tool, ts.handleListOBTenantResources)
}

func (ts *ToolServer) handleListOBTenantResources(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if ts.kube == nil {
		return mcp.NewToolResultError("Kubernetes client is not available"), nil
	}
	namespace := tools.StringOr(req, "namespace", "default")
	if err := okctl.ValidateIdentifier(namespace, "namespace"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tenants, err := ts.kube.ListOBTenants(ctx, namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list OBTenant resources: %v", err)), nil
	}
	return tools.FormatResult(tenants, tools.StringOr(req, "output_format", "json"))
}
