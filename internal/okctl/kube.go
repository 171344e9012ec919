package okctl

import (
	"context"
	"encoding/json"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/oceanbase/awesome-oceanbase-mcp/pkg/types"
)

// operatorNamespace is where the ob-operator deployment lives.
const operatorNamespace = "oceanbase"

// GroupVersionResource definitions for ob-operator CRDs.
var (
	OBClusterGVR = schema.GroupVersionResource{
		Group:    "oceanbase.oceanbase.com",
		Version:  "v1alpha1",
		Resource: "obclusters",
	}

	OBTenantGVR = schema.GroupVersionResource{
		Group:    "oceanbase.oceanbase.com",
		Version:  "v1alpha1",
		Resource: "obtenants",
	}

	deploymentGVR = schema.GroupVersionResource{
		Group:    "apps",
		Version:  "v1",
		Resource: "deployments",
	}
)

// KubeClient wraps the Kubernetes dynamic client for ob-operator resources.
type KubeClient struct {
	dynamicClient dynamic.Interface
}

// NewKubeClient creates a Kubernetes client.
// It tries in-cluster config first, then falls back to kubeconfig.
func NewKubeClient() (*KubeClient, error) {
	config, err := rest.InClusterConfig()
	if err != nil {
		loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
		configOverrides := &clientcmd.ConfigOverrides{}
		kubeConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, configOverrides)
		config, err = kubeConfig.ClientConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create kubernetes config: %w", err)
		}
	}

	dynamicClient, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	return &KubeClient{dynamicClient: dynamicClient}, nil
}

// OperatorInstalled reports whether the ob-operator deployment exists in
// the oceanbase namespace.
func (c *KubeClient) OperatorInstalled(ctx context.Context) (bool, error) {
	_, err := c.dynamicClient.Resource(deploymentGVR).Namespace(operatorNamespace).Get(ctx, "ob-operator", metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check ob-operator deployment: %w", err)
	}
	return true, nil
}

// ListOBClusters lists the OBCluster resources in a namespace.
func (c *KubeClient) ListOBClusters(ctx context.Context, namespace string) ([]types.OBCluster, error) {
	list, err := c.dynamicClient.Resource(OBClusterGVR).Namespace(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list obclusters: %w", err)
	}

	var clusters []types.OBCluster
	for _, item := range list.Items {
		cluster, err := unstructuredToOBCluster(&item)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, *cluster)
	}
	return clusters, nil
}

// GetOBCluster gets a specific OBCluster by name.
func (c *KubeClient) GetOBCluster(ctx context.Context, namespace, name string) (*types.OBCluster, error) {
	obj, err := c.dynamicClient.Resource(OBClusterGVR).Namespace(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get obcluster %s: %w", name, err)
	}
	return unstructuredToOBCluster(obj)
}

// ListOBTenants lists the OBTenant resources in a namespace.
func (c *KubeClient) ListOBTenants(ctx context.Context, namespace string) ([]types.OBTenant, error) {
	list, err := c.dynamicClient.Resource(OBTenantGVR).Namespace(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list obtenants: %w", err)
	}

	var tenants []types.OBTenant
	for _, item := range list.Items {
		tenant, err := unstructuredToOBTenant(&item)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, *tenant)
	}
	return tenants, nil
}

func unstructuredToOBCluster(obj *unstructured.Unstructured) (*types.OBCluster, error) {
	data, err := json.Marshal(obj.Object)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal unstructured: %w", err)
	}
	var cluster types.OBCluster
	if err := json.Unmarshal(data, &cluster); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to obcluster: %w", err)
	}
	return &cluster, nil
}

func unstructuredToOBTenant(obj *unstructured.Unstructured) (*types.OBTenant, error) {
	data, err := json.Marshal(obj.Object)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal unstructured: %w", err)
	}
	var tenant types.OBTenant
	if err := json.Unmarshal(data, &tenant); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to obtenant: %w", err)
	}
	return &tenant, nil
}
