// Package types: resources shared between the AWS client, the view controllers and the UI
package types

import (
	"fmt"
	"time"
)

// Kind identifies one of the resource views
type Kind string

const (
	KindInstances Kind = "instances"
	KindObjects   Kind = "objects"
	KindCosts     Kind = "costs"
)

// Item is anything a view can list
type Item interface {
	ID() string
	DisplayName() string
}

// Instance is one EC2 instance as shown in the instances view
type Instance struct {
	InstanceID string
	Name       string
	State      string
	Type       string
	AZ         string
	LaunchTime time.Time
	PublicIP   string
	PrivateIP  string
	Tags       map[string]string
}

func (i Instance) ID() string { return i.InstanceID }

func (i Instance) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.InstanceID
}

// InstancePage is one page of DescribeInstances
type InstancePage struct {
	Items     []Instance
	NextToken string
}

// InstanceStatus holds the two status checks of an instance
type InstanceStatus struct {
	InstanceID     string
	InstanceStatus string
	SystemStatus   string
}

// String renders the checks as "instance/system"
func (s InstanceStatus) String() string {
	instance, system := s.InstanceStatus, s.SystemStatus
	if instance == "" {
		instance = "unknown"
	}
	if system == "" {
		system = "unknown"
	}
	return instance + "/" + system
}

// TargetState is the state a start/stop request asks for
type TargetState string

const (
	TargetRunning TargetState = "running"
	TargetStopped TargetState = "stopped"
)

// Region is an EC2 region
type Region struct {
	Name     string
	Endpoint string
}

// Bucket is an S3 bucket
type Bucket struct {
	Name      string
	CreatedAt time.Time
}

func (b Bucket) ID() string          { return b.Name }
func (b Bucket) DisplayName() string { return b.Name }

// ObjectFile is an S3 object directly under the listed prefix
type ObjectFile struct {
	Key          string
	Size         int64
	LastModified time.Time
	StorageClass string
}

func (o ObjectFile) ID() string          { return o.Key }
func (o ObjectFile) DisplayName() string { return o.Key }

// ObjectFolder is a common prefix under the listed prefix
type ObjectFolder struct {
	Prefix string
}

func (f ObjectFolder) ID() string          { return f.Prefix }
func (f ObjectFolder) DisplayName() string { return f.Prefix }

// ObjectPage is one page of ListObjectsV2, folders first
type ObjectPage struct {
	Items     []Item
	NextToken string
}

// CostRecord is one (service, usage type) group of one time bucket
type CostRecord struct {
	Service   string
	UsageType string
	Amount    float64
	Unit      string
}

func (r CostRecord) ID() string          { return r.Service + ":" + r.UsageType }
func (r CostRecord) DisplayName() string { return r.UsageType }

// CostRange is one of the cost view presets
type CostRange string

const (
	Range24h CostRange = "24h"
	Range7d  CostRange = "7d"
	Range30d CostRange = "30d"
)

// CostRanges lists the presets in cycling order
var CostRanges = []CostRange{Range24h, Range7d, Range30d}

// Label is the human name of the preset
func (r CostRange) Label() string {
	switch r {
	case Range24h:
		return "Past 24h"
	case Range30d:
		return "Past 30 days"
	default:
		return "Past 7 days"
	}
}

// TimeRange is a Cost Explorer query window, End exclusive
type TimeRange struct {
	Start       time.Time
	End         time.Time
	Granularity string
}

func (t TimeRange) String() string {
	return fmt.Sprintf("%s to %s", t.Start.Format("2006-01-02"), t.End.Format("2006-01-02"))
}

// ResourceCost is a usage type under a service
type ResourceCost struct {
	ID               string
	Name             string
	UsageType        string
	Amount           float64
	Unit             string
	PercentOfService float64
}

// ServiceCost is a service with its usage types
type ServiceCost struct {
	ID             string
	Name           string
	Amount         float64
	Unit           string
	PercentOfTotal float64
	Children       []ResourceCost
}

// CostSummary is the aggregated cost tree
type CostSummary struct {
	Total       float64
	Unit        string
	Services    []ServiceCost
	MixedUnits  bool
	Range       CostRange
	LastUpdated time.Time
}

// CostData represents formatted rows for display, first row is the header
type CostData struct {
	Title string
	Rows  [][]string
}
