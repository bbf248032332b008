package generator

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/halcyonsec/forge/internal/event"
)

// techniqueNames maps the MITRE technique IDs used by the built-in
// scenarios to rule titles. Unknown techniques get a generic title.
var techniqueNames = map[string]string{
	"T1003":     "OS Credential Dumping",
	"T1005":     "Data from Local System",
	"T1021.001": "Remote Services: Remote Desktop Protocol",
	"T1021.002": "Remote Services: SMB/Windows Admin Shares",
	"T1021.006": "Remote Services: Windows Remote Management",
	"T1041":     "Exfiltration Over C2 Channel",
	"T1053.005": "Scheduled Task",
	"T1057":     "Process Discovery",
	"T1059.001": "Command and Scripting Interpreter: PowerShell",
	"T1059.003": "Command and Scripting Interpreter: Windows Command Shell",
	"T1068":     "Exploitation for Privilege Escalation",
	"T1070.004": "Indicator Removal: File Deletion",
	"T1071.001": "Application Layer Protocol: Web Protocols",
	"T1078":     "Valid Accounts",
	"T1078.002": "Valid Accounts: Domain Accounts",
	"T1083":     "File and Directory Discovery",
	"T1190":     "Exploit Public-Facing Application",
	"T1486":     "Data Encrypted for Impact",
	"T1566.001": "Phishing: Spearphishing Attachment",
	"T1566.002": "Phishing: Spearphishing Link",
	"T1567.002": "Exfiltration to Cloud Storage",
	"T1595.002": "Active Scanning: Vulnerability Scanning",
}

var severities = []string{"low", "medium", "high", "critical"}

// Synthetic is the built-in Generator. It fabricates Kibana-alert-shaped
// documents locally with no external calls, so campaigns can be generated
// offline and deterministically under a fixed seed.
type Synthetic struct {
	mu   sync.Mutex
	rng  *rand.Rand
	fake *gofakeit.Faker
}

// NewSynthetic creates a synthetic generator with its own random sources.
func NewSynthetic(seed int64) *Synthetic {
	return &Synthetic{
		rng:  rand.New(rand.NewSource(seed)),
		fake: gofakeit.New(seed),
	}
}

// GenerateAlert fabricates one alert inside the request's time window.
func (g *Synthetic) GenerateAlert(ctx context.Context, req Request) (*event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	ts := randomInWindow(g.rng, req.WindowStart, req.WindowEnd)
	severity := severities[g.rng.Intn(len(severities))]
	pid := g.rng.Intn(65000) + 100
	srcPort := g.rng.Intn(65535-1024) + 1024
	hostIP := g.fake.IPv4Address()
	srcIP := g.fake.IPv4Address()
	osName := g.fake.RandomString([]string{"Windows Server 2022", "Windows 11", "Ubuntu 22.04", "RHEL 9"})
	procName := g.fake.RandomString([]string{"powershell.exe", "cmd.exe", "rundll32.exe", "svchost.exe", "bash", "python3"})
	g.mu.Unlock()

	e := event.New(uuid.NewString(), ts)
	e.Host = req.HostName
	e.User = req.UserName
	e.Severity = severity

	ruleName := "Suspicious Activity Detected"
	if req.MitreEnabled && req.Technique != "" {
		e.Technique = req.Technique
		if name, ok := techniqueNames[req.Technique]; ok {
			ruleName = name
		} else {
			ruleName = fmt.Sprintf("Technique %s Activity", req.Technique)
		}
	}

	e.Set("kibana.alert.rule.name", ruleName)
	e.Set("kibana.alert.status", "active")
	e.Set("kibana.alert.workflow_status", "open")
	e.Set("kibana.space_ids", []string{spaceOrDefault(req.Space)})
	e.Set("event.kind", "signal")
	e.Set("event.category", "intrusion_detection")
	e.Set("host.ip", hostIP)
	e.Set("host.os.name", osName)
	e.Set("process.pid", pid)
	e.Set("process.name", procName)
	e.Set("source.ip", srcIP)
	e.Set("source.port", srcPort)
	e.Set("user.domain", "corp.local")
	e.Set("message", fmt.Sprintf("%s observed on %s by account %s", ruleName, req.HostName, req.UserName))

	if req.Chain != nil {
		if len(req.Chain.ParentEvents) > 0 {
			e.Set("attack_chain.parent_events", append([]string(nil), req.Chain.ParentEvents...))
		}
		e.Set("attack_chain.stage_name", req.Chain.StageName)
	}

	return e, nil
}

func spaceOrDefault(space string) string {
	if space == "" {
		return "default"
	}
	return space
}

func randomInWindow(rng *rand.Rand, start, end time.Time) time.Time {
	if !end.After(start) {
		return start
	}
	span := end.Sub(start)
	return start.Add(time.Duration(rng.Int63n(int64(span))))
}
