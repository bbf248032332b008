// Package topology models the synthetic network that generated campaigns
// play out on: subnets, critical assets, and the lateral-movement paths
// between them. The model is static data; only target selection is random.
package topology

import (
	"fmt"
	"math/rand"

	"github.com/brianvoe/gofakeit/v6"
)

// hostPrefixes are the role prefixes used for synthetic hostnames.
var hostPrefixes = []string{"ws", "srv", "dc", "db", "web", "app", "mail"}

// Subnet is one network segment.
type Subnet struct {
	Name string `json:"name"`
	CIDR string `json:"cidr"`
	Zone string `json:"zone"`
}

// Asset is a critical asset attackers pivot toward.
type Asset struct {
	Host     string `json:"host"`
	Role     string `json:"role"`
	Subnet   string `json:"subnet"`
	Critical bool   `json:"critical"`
}

// Path is a plausible lateral-movement hop between two assets.
type Path struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Protocol  string `json:"protocol"`
	Technique string `json:"technique"`
}

// Network is the full synthetic topology.
type Network struct {
	Subnets []Subnet `json:"subnets"`
	Assets  []Asset  `json:"assets"`
	Paths   []Path   `json:"lateral_paths"`
}

// Default returns the built-in topology.
func Default() *Network {
	return &Network{
		Subnets: []Subnet{
			{Name: "corp-workstations", CIDR: "10.10.0.0/16", Zone: "internal"},
			{Name: "server-farm", CIDR: "10.20.0.0/16", Zone: "internal"},
			{Name: "dmz", CIDR: "172.16.0.0/24", Zone: "dmz"},
			{Name: "management", CIDR: "10.30.0.0/24", Zone: "restricted"},
		},
		Assets: []Asset{
			{Host: "dc-001", Role: "domain_controller", Subnet: "server-farm", Critical: true},
			{Host: "db-001", Role: "database", Subnet: "server-farm", Critical: true},
			{Host: "srv-001", Role: "file_server", Subnet: "server-farm", Critical: true},
			{Host: "web-001", Role: "web_server", Subnet: "dmz", Critical: false},
			{Host: "mail-001", Role: "mail_gateway", Subnet: "dmz", Critical: false},
			{Host: "app-001", Role: "erp_application", Subnet: "server-farm", Critical: true},
		},
		Paths: []Path{
			{From: "web-001", To: "app-001", Protocol: "smb", Technique: "T1021.002"},
			{From: "app-001", To: "db-001", Protocol: "mssql", Technique: "T1078"},
			{From: "srv-001", To: "dc-001", Protocol: "rdp", Technique: "T1021.001"},
			{From: "mail-001", To: "srv-001", Protocol: "winrm", Technique: "T1021.006"},
			{From: "dc-001", To: "db-001", Protocol: "rdp", Technique: "T1021.001"},
		},
	}
}

// Hostnames produces n synthetic target hostnames in the {prefix}-NNN
// pattern used across generated documents.
func Hostnames(rng *rand.Rand, n int) []string {
	hosts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		prefix := hostPrefixes[rng.Intn(len(hostPrefixes))]
		hosts = append(hosts, fmt.Sprintf("%s-%03d", prefix, rng.Intn(1000)))
	}
	return hosts
}

// tacticRoles maps a stage tactic to the account roles plausibly active
// during it.
var tacticRoles = map[string][]string{
	"reconnaissance":       {"external", "scanner"},
	"initial_access":       {"user", "contractor"},
	"execution":            {"user", "service"},
	"persistence":          {"service", "admin"},
	"privilege_escalation": {"admin", "user"},
	"defense_evasion":      {"admin", "service"},
	"discovery":            {"user", "admin"},
	"lateral_movement":     {"admin", "domain_admin", "service"},
	"collection":           {"user", "service"},
	"command_and_control":  {"service"},
	"exfiltration":         {"service", "admin"},
	"impact":               {"admin", "domain_admin"},
}

// Username derives a role-contextual synthetic account name for a stage
// tactic. Unknown tactics fall back to a plain user account. Drawing from
// the caller's faker keeps fixed-seed runs fully reproducible.
func Username(fake *gofakeit.Faker, tactic string) string {
	roles, ok := tacticRoles[tactic]
	if !ok {
		roles = []string{"user"}
	}
	role := roles[fake.Rand.Intn(len(roles))]

	switch role {
	case "admin":
		return fmt.Sprintf("adm_%s", fake.Username())
	case "domain_admin":
		return fmt.Sprintf("da_%s", fake.Username())
	case "service":
		return fmt.Sprintf("svc_%s", fake.NounAbstract())
	case "external", "scanner", "contractor":
		return fake.Email()
	default:
		return fake.Username()
	}
}

// Artifact is a per-technique forensic trace attached to a stage.
type Artifact struct {
	Technique     string   `json:"technique"`
	Kind          string   `json:"kind"`
	Detectability string   `json:"detectability"`
	IOCs          []string `json:"iocs"`
}

var artifactKinds = []string{"process", "file", "registry", "network", "authentication"}
var detectability = []string{"low", "medium", "high"}

// Artifacts builds one artifact per technique, tagged with a detectability
// level and synthetic IOC strings.
func Artifacts(fake *gofakeit.Faker, techniques []string) []Artifact {
	out := make([]Artifact, 0, len(techniques))
	for _, tech := range techniques {
		out = append(out, Artifact{
			Technique:     tech,
			Kind:          artifactKinds[fake.Rand.Intn(len(artifactKinds))],
			Detectability: detectability[fake.Rand.Intn(len(detectability))],
			IOCs: []string{
				fake.IPv4Address(),
				fmt.Sprintf("%x", fake.Rand.Uint64()),
				fake.DomainName(),
			},
		})
	}
	return out
}
