package catalog

// builtinScenarios is the static scenario data. Technique IDs are MITRE
// ATT&CK; stage durations are in hours, campaign durations in days.
var builtinScenarios = []Scenario{
	{
		ID:       "apt-silent-heron",
		Name:     "Silent Heron Reconnaissance Sweep",
		Category: CategoryAPT,
		Actor:    "Silent Heron",
		Duration: DayRange{Min: 7, Max: 21},
		Stages: []StageDef{
			{
				Name:       "reconnaissance",
				Tactic:     "reconnaissance",
				Techniques: []string{"T1595.002", "T1590.005"},
				Duration:   HourRange{Min: 6, Max: 48},
				Objectives: []string{"map external attack surface", "identify exposed services"},
			},
			{
				Name:       "initial_access",
				Tactic:     "initial_access",
				Techniques: []string{"T1566.001", "T1190"},
				Duration:   HourRange{Min: 2, Max: 24},
				Objectives: []string{"establish foothold on perimeter host"},
			},
		},
	},
	{
		ID:       "apt-crimson-mantis",
		Name:     "Crimson Mantis Long-Dwell Intrusion",
		Category: CategoryAPT,
		Actor:    "Crimson Mantis",
		Duration: DayRange{Min: 21, Max: 60},
		Stages: []StageDef{
			{
				Name:       "reconnaissance",
				Tactic:     "reconnaissance",
				Techniques: []string{"T1595.001", "T1592.002"},
				Duration:   HourRange{Min: 12, Max: 72},
				Objectives: []string{"enumerate public infrastructure"},
			},
			{
				Name:       "initial_access",
				Tactic:     "initial_access",
				Techniques: []string{"T1566.002"},
				Duration:   HourRange{Min: 2, Max: 12},
				Objectives: []string{"compromise workstation via spearphishing link"},
			},
			{
				Name:       "execution",
				Tactic:     "execution",
				Techniques: []string{"T1059.001", "T1204.002"},
				Duration:   HourRange{Min: 1, Max: 8},
				Objectives: []string{"stage loader", "establish C2 channel"},
			},
			{
				Name:       "persistence",
				Tactic:     "persistence",
				Techniques: []string{"T1053.005", "T1547.001"},
				Duration:   HourRange{Min: 2, Max: 24},
				Objectives: []string{"survive reboot on beachhead host"},
			},
			{
				Name:       "privilege_escalation",
				Tactic:     "privilege_escalation",
				Techniques: []string{"T1068", "T1078.002"},
				Duration:   HourRange{Min: 4, Max: 24},
				Objectives: []string{"obtain domain admin credentials"},
			},
			{
				Name:       "lateral_movement",
				Tactic:     "lateral_movement",
				Techniques: []string{"T1078", "T1021.001", "T1057"},
				Duration:   HourRange{Min: 8, Max: 48},
				Objectives: []string{"reach file servers and domain controllers"},
			},
			{
				Name:       "exfiltration",
				Tactic:     "exfiltration",
				Techniques: []string{"T1041", "T1567.002"},
				Duration:   HourRange{Min: 4, Max: 36},
				Objectives: []string{"exfiltrate staged archives over C2"},
			},
		},
	},
	{
		ID:       "ransomware-blackvault",
		Name:     "BlackVault Encryption Campaign",
		Category: CategoryRansomware,
		Actor:    "BlackVault",
		Duration: DayRange{Min: 3, Max: 14},
		Stages: []StageDef{
			{
				Name:       "initial_access",
				Tactic:     "initial_access",
				Techniques: []string{"T1133", "T1078"},
				Duration:   HourRange{Min: 2, Max: 12},
				Objectives: []string{"gain entry via exposed RDP"},
			},
			{
				Name:       "execution",
				Tactic:     "execution",
				Techniques: []string{"T1059.003"},
				Duration:   HourRange{Min: 1, Max: 6},
				Objectives: []string{"deploy cobalt loader"},
			},
			{
				Name:       "defense_evasion",
				Tactic:     "defense_evasion",
				Techniques: []string{"T1562.001", "T1070.004"},
				Duration:   HourRange{Min: 1, Max: 8},
				Objectives: []string{"disable endpoint protection", "clear logs"},
			},
			{
				Name:       "lateral_movement",
				Tactic:     "lateral_movement",
				Techniques: []string{"T1021.001", "T1021.002", "T1057"},
				Duration:   HourRange{Min: 6, Max: 36},
				Objectives: []string{"spread to backup and file servers"},
			},
			{
				Name:       "impact",
				Tactic:     "impact",
				Techniques: []string{"T1486", "T1490"},
				Duration:   HourRange{Min: 2, Max: 12},
				Objectives: []string{"encrypt data", "delete volume shadow copies"},
			},
		},
	},
	{
		ID:       "insider-midnight-ledger",
		Name:     "Midnight Ledger Data Theft",
		Category: CategoryInsider,
		Actor:    "disgruntled database administrator",
		Duration: DayRange{Min: 14, Max: 45},
		Stages: []StageDef{
			{
				Name:       "data_discovery",
				Tactic:     "discovery",
				Techniques: []string{"T1083", "T1087.002"},
				Duration:   HourRange{Min: 4, Max: 24},
				Objectives: []string{"locate customer and finance databases"},
			},
			{
				Name:       "collection",
				Tactic:     "collection",
				Techniques: []string{"T1005", "T1039"},
				Duration:   HourRange{Min: 6, Max: 48},
				Objectives: []string{"dump tables during off-hours"},
			},
			{
				Name:       "staging",
				Tactic:     "collection",
				Techniques: []string{"T1074.001", "T1560.001"},
				Duration:   HourRange{Min: 2, Max: 16},
				Objectives: []string{"compress archives under temp paths"},
			},
			{
				Name:       "exfiltration",
				Tactic:     "exfiltration",
				Techniques: []string{"T1567.002", "T1052.001"},
				Duration:   HourRange{Min: 2, Max: 24},
				Objectives: []string{"move archives to personal cloud storage"},
			},
		},
	},
	{
		ID:       "supplychain-poisoned-pipeline",
		Name:     "Poisoned Pipeline Vendor Compromise",
		Category: CategorySupplyChain,
		Actor:    "Poisoned Pipeline operators",
		Duration: DayRange{Min: 30, Max: 60},
		Stages: []StageDef{
			{
				Name:       "vendor_compromise",
				Tactic:     "initial_access",
				Techniques: []string{"T1195.002"},
				Duration:   HourRange{Min: 12, Max: 72},
				Objectives: []string{"trojanize signed vendor update"},
			},
			{
				Name:       "initial_access",
				Tactic:     "initial_access",
				Techniques: []string{"T1195.002", "T1199"},
				Duration:   HourRange{Min: 4, Max: 24},
				Objectives: []string{"deploy implant via update channel"},
			},
			{
				Name:       "persistence",
				Tactic:     "persistence",
				Techniques: []string{"T1543.003"},
				Duration:   HourRange{Min: 2, Max: 24},
				Objectives: []string{"register implant as system service"},
			},
			{
				Name:       "command_and_control",
				Tactic:     "command_and_control",
				Techniques: []string{"T1071.001", "T1568.002"},
				Duration:   HourRange{Min: 12, Max: 48},
				Objectives: []string{"establish DGA-backed C2"},
			},
			{
				Name:       "collection",
				Tactic:     "collection",
				Techniques: []string{"T1119", "T1005"},
				Duration:   HourRange{Min: 8, Max: 48},
				Objectives: []string{"harvest credentials and source trees"},
			},
			{
				Name:       "exfiltration",
				Tactic:     "exfiltration",
				Techniques: []string{"T1041"},
				Duration:   HourRange{Min: 4, Max: 36},
				Objectives: []string{"exfiltrate selected targets over C2"},
			},
		},
	},
}
