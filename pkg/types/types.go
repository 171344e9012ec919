// Package types defines the ob-operator CRD types read by the okctl server.
package types

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// OBCluster represents an ob-operator OBCluster resource.
type OBCluster struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`
	Spec              OBClusterSpec   `json:"spec,omitempty"`
	Status            OBClusterStatus `json:"status,omitempty"`
}

// OBClusterSpec defines the desired state of an OBCluster.
type OBClusterSpec struct {
	ClusterName string         `json:"clusterName,omitempty"`
	ClusterID   int64          `json:"clusterId,omitempty"`
	Topology    []ZoneTopology `json:"topology,omitempty"`
	OBServer    *OBServerSpec  `json:"observer,omitempty"`
}

// ZoneTopology describes one zone and its replica count.
type ZoneTopology struct {
	Zone    string `json:"zone,omitempty"`
	Replica int    `json:"replica,omitempty"`
}

// OBServerSpec holds the observer image and resource settings.
type OBServerSpec struct {
	Image    string            `json:"image,omitempty"`
	Resource *ResourceSpec     `json:"resource,omitempty"`
	Storage  map[string]string `json:"storage,omitempty"`
}

// ResourceSpec holds CPU and memory requests for an observer.
type ResourceSpec struct {
	CPU    int64  `json:"cpu,omitempty"`
	Memory string `json:"memory,omitempty"`
}

// OBClusterStatus reflects the observed state of an OBCluster.
type OBClusterStatus struct {
	Status string `json:"status,omitempty"` // e.g. "running", "upgrading"
	Image  string `json:"image,omitempty"`
}

// OBTenant represents an ob-operator OBTenant resource.
type OBTenant struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`
	Spec              OBTenantSpec   `json:"spec,omitempty"`
	Status            OBTenantStatus `json:"status,omitempty"`
}

// OBTenantSpec defines the desired state of an OBTenant.
type OBTenantSpec struct {
	OBCluster  string `json:"obcluster,omitempty"`
	TenantName string `json:"tenantName,omitempty"`
	TenantRole string `json:"tenantRole,omitempty"` // "PRIMARY" or "STANDBY"
	UnitNumber int    `json:"unitNum,omitempty"`
	Charset    string `json:"charset,omitempty"`
}

// OBTenantStatus reflects the observed state of an OBTenant.
type OBTenantStatus struct {
	Status     string `json:"status,omitempty"`
	TenantRole string `json:"tenantRole,omitempty"`
}
