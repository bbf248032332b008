// Package seednoise fabricates benign baseline activity. Campaign alerts
// dropped into an empty index are trivially obvious; spreading routine
// auth, network and process documents over the same time range gives
// detection content something realistic to stand against.
package seednoise

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/halcyonsec/forge/internal/event"
)

// Types lists the supported noise event types.
func Types() []string {
	return []string{"auth", "network", "process", "file", "dns", "http", "detection"}
}

// Generator produces baseline noise documents.
type Generator struct {
	mu   sync.Mutex
	rng  *rand.Rand
	fake *gofakeit.Faker
	now  func() time.Time
}

// NewGenerator seeds a noise generator. The same seed yields the same
// document stream.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		fake: gofakeit.New(seed),
		now:  time.Now,
	}
}

// Event fabricates the index-th of total noise documents, spread backwards
// from now over the given duration with jitter so the timeline does not
// look machine-stamped.
func (g *Generator) Event(eventType string, index, total int, spread time.Duration) *event.Event {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := g.eventTime(index, total, spread)
	ev := event.New(uuid.NewString(), ts)
	ev.Host = fmt.Sprintf("ws-%03d", g.rng.Intn(250))
	ev.User = g.fake.Username()
	ev.Severity = "low"

	switch eventType {
	case "network":
		g.networkFields(ev)
	case "process":
		g.processFields(ev)
	case "file":
		g.fileFields(ev)
	case "dns":
		g.dnsFields(ev)
	case "http":
		g.httpFields(ev)
	case "detection":
		g.detectionFields(ev)
	default:
		g.authFields(ev)
	}
	return ev
}

func (g *Generator) eventTime(index, total int, spread time.Duration) time.Time {
	now := g.now()
	if spread <= 0 || total <= 0 {
		return now
	}

	// Evenly spaced with ±40% jitter, walking backwards from now.
	interval := float64(spread) / float64(total)
	offset := time.Duration(float64(index) * interval)
	jitter := time.Duration((g.rng.Float64()*2 - 1) * interval * 0.4)

	offset += jitter
	if offset < 0 {
		offset = 0
	}
	if offset > spread {
		offset = spread
	}
	return now.Add(-(spread - offset))
}

func (g *Generator) authFields(ev *event.Event) {
	actions := []string{"login", "logout", "mfa_verify", "password_change"}
	action := actions[g.rng.Intn(len(actions))]

	success := g.rng.Float64() > 0.15
	outcome := "success"
	if !success {
		outcome = "failure"
		ev.Severity = "medium"
	}

	ev.Set("event.category", "authentication")
	ev.Set("event.action", action)
	ev.Set("event.outcome", outcome)
	ev.Set("source.ip", g.fake.IPv4Address())
	ev.Set("user.email", g.fake.Email())
	ev.Set("authentication.protocol", "LDAP")
	ev.Set("message", fmt.Sprintf("User %s %s for %s", action, outcome, ev.User))

	if !success {
		reasons := []string{"invalid credentials", "account locked", "expired password"}
		ev.Set("event.reason", reasons[g.rng.Intn(len(reasons))])
	}
}

func (g *Generator) networkFields(ev *event.Event) {
	protocols := []string{"tcp", "udp", "icmp"}
	ports := []int{80, 443, 22, 3389, 445, 3306, 5432}

	ev.Set("event.category", "network")
	ev.Set("event.action", "connection_attempted")
	ev.Set("source.ip", g.fake.IPv4Address())
	ev.Set("source.port", g.rng.Intn(64511)+1024)
	ev.Set("destination.ip", g.fake.IPv4Address())
	ev.Set("destination.port", ports[g.rng.Intn(len(ports))])
	ev.Set("network.transport", protocols[g.rng.Intn(len(protocols))])
	ev.Set("network.direction", []string{"inbound", "outbound"}[g.rng.Intn(2)])
	ev.Set("network.bytes", g.rng.Intn(1000000))
	ev.Set("network.packets", g.rng.Intn(10000))
}

func (g *Generator) processFields(ev *event.Event) {
	commands := []string{
		"/bin/bash -c 'ls -la'",
		"python3 /opt/scripts/backup.py",
		"/usr/bin/curl https://api.example.com",
		"docker run -d nginx",
		"systemctl restart nginx",
		"npm install express",
	}
	names := []string{"bash", "python3", "curl", "docker", "systemctl", "npm"}
	i := g.rng.Intn(len(commands))

	ev.Set("event.category", "process")
	ev.Set("event.action", "process_started")
	ev.Set("process.pid", g.rng.Intn(65535))
	ev.Set("process.name", names[i])
	ev.Set("process.command_line", commands[i])
	ev.Set("process.parent.name", "systemd")
}

func (g *Generator) fileFields(ev *event.Event) {
	actions := []string{"creation", "read", "modification", "deletion", "rename"}
	paths := []string{
		"/var/log/app.log",
		"/etc/nginx/nginx.conf",
		"/home/user/documents/report.pdf",
		"/tmp/upload_" + uuid.NewString()[:8],
		"/opt/data/config.json",
	}

	ev.Set("event.category", "file")
	ev.Set("event.action", actions[g.rng.Intn(len(actions))])
	ev.Set("file.path", paths[g.rng.Intn(len(paths))])
	ev.Set("file.size", g.rng.Intn(10000000))
}

func (g *Generator) dnsFields(ev *event.Event) {
	domains := []string{
		"example.com",
		"api.github.com",
		"cdn.cloudflare.net",
		"login.microsoft.com",
		"updates.ubuntu.com",
	}
	rtypes := []string{"A", "AAAA", "CNAME", "MX", "TXT"}
	rtype := rtypes[g.rng.Intn(len(rtypes))]

	ev.Set("event.category", "network")
	ev.Set("event.action", "dns_query")
	ev.Set("dns.question.name", domains[g.rng.Intn(len(domains))])
	ev.Set("dns.question.type", rtype)
	ev.Set("dns.response_code", []string{"NOERROR", "NXDOMAIN", "SERVFAIL"}[g.rng.Intn(3)])
	ev.Set("dns.resolved_ip", g.fake.IPv4Address())
}

func (g *Generator) httpFields(ev *event.Event) {
	methods := []string{"GET", "POST", "PUT", "DELETE", "PATCH"}
	codes := []int{200, 201, 204, 301, 302, 400, 401, 403, 404, 500, 502, 503}
	paths := []string{
		"/api/v1/users",
		"/api/v1/auth/login",
		"/api/v1/events",
		"/health",
		"/metrics",
		"/admin/dashboard",
	}

	code := codes[g.rng.Intn(len(codes))]
	if code >= 500 {
		ev.Severity = "medium"
	}

	ev.Set("event.category", "web")
	ev.Set("http.request.method", methods[g.rng.Intn(len(methods))])
	ev.Set("url.path", paths[g.rng.Intn(len(paths))])
	ev.Set("url.domain", g.fake.DomainName())
	ev.Set("http.response.status_code", code)
	ev.Set("http.response.bytes", g.rng.Intn(100000))
	ev.Set("user_agent.original", g.fake.UserAgent())
	ev.Set("source.ip", g.fake.IPv4Address())
}

func (g *Generator) detectionFields(ev *event.Event) {
	findings := []struct {
		title    string
		severity string
		tactic   string
	}{
		{"Suspicious PowerShell Execution", "high", "Execution"},
		{"Multiple Failed Login Attempts", "medium", "Credential Access"},
		{"Unusual Network Traffic Pattern", "medium", "Command and Control"},
		{"Potential Data Exfiltration", "high", "Exfiltration"},
		{"Privilege Escalation Attempt", "high", "Privilege Escalation"},
		{"Malware Detected", "critical", "Malware"},
	}
	finding := findings[g.rng.Intn(len(findings))]

	ev.Severity = finding.severity
	ev.Set("event.category", "detection")
	ev.Set("kibana.alert.rule.name", finding.title)
	ev.Set("threat.tactic.name", finding.tactic)
	ev.Set("message", finding.title)
}
