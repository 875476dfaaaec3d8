package catalog

// builtinDescriptors is the compiled-in catalog of PMBOK/BABOK/DMBOK document
// templates. Dependencies reference canonical ids and must stay acyclic;
// Builtin panics otherwise, which turns an authoring mistake in this table
// into an immediate startup failure.
var builtinDescriptors = []TemplateDescriptor{
	// Strategy analysis and stakeholder groundwork. These have no
	// prerequisites and seed every generation frontier.
	{
		ID:              "business-case",
		Name:            "Business Case",
		Category:        "strategic-statements",
		Priority:        PriorityCritical,
		KnowledgeArea:   "Strategy Analysis",
		Description:     "Justification for the initiative: problem, options, recommendation.",
		EstimatedEffort: "4h",
	},
	{
		ID:              "stakeholder-register",
		Name:            "Stakeholder Register",
		Category:        "stakeholder-management",
		Priority:        PriorityCritical,
		KnowledgeArea:   "Stakeholder Management",
		Description:     "Identified stakeholders with roles, interest, and influence.",
		EstimatedEffort: "2h",
	},
	{
		ID:            "stakeholder-analysis",
		Name:          "Stakeholder Analysis",
		Category:      "stakeholder-management",
		Priority:      PriorityHigh,
		KnowledgeArea: "Stakeholder Management",
		Dependencies:  []string{"stakeholder-register"},
	},
	{
		ID:            "business-analysis-plan",
		Name:          "Business Analysis Plan",
		Category:      "babok-planning",
		Priority:      PriorityHigh,
		KnowledgeArea: "Business Analysis Planning and Monitoring",
		Dependencies:  []string{"business-case", "stakeholder-register"},
	},
	{
		ID:            "elicitation-plan",
		Name:          "Elicitation and Collaboration Plan",
		Category:      "babok-elicitation",
		Priority:      PriorityMedium,
		KnowledgeArea: "Elicitation and Collaboration",
		Dependencies:  []string{"business-analysis-plan", "stakeholder-analysis"},
	},
	{
		ID:            "requirements-documentation",
		Name:          "Requirements Documentation",
		Category:      "babok-requirements",
		Priority:      PriorityCritical,
		KnowledgeArea: "Requirements Analysis and Design Definition",
		Dependencies:  []string{"elicitation-plan"},
	},
	{
		ID:            "user-stories",
		Name:          "User Stories",
		Category:      "babok-requirements",
		Priority:      PriorityHigh,
		KnowledgeArea: "Requirements Analysis and Design Definition",
		Dependencies:  []string{"stakeholder-analysis"},
	},
	{
		ID:            "acceptance-criteria",
		Name:          "Acceptance Criteria",
		Category:      "babok-requirements",
		Priority:      PriorityMedium,
		KnowledgeArea: "Solution Evaluation",
		Dependencies:  []string{"user-stories"},
	},
	{
		ID:            "solution-assessment",
		Name:          "Solution Assessment and Validation",
		Category:      "babok-evaluation",
		Priority:      PriorityMedium,
		KnowledgeArea: "Solution Evaluation",
		Dependencies:  []string{"requirements-documentation"},
	},

	// PMBOK initiating.
	{
		ID:              "project-charter",
		Name:            "Project Charter",
		Category:        "pmbok-initiating",
		Priority:        PriorityCritical,
		KnowledgeArea:   "Integration Management",
		Dependencies:    []string{"business-case", "stakeholder-register"},
		Description:     "Formal authorization of the project and the project manager.",
		EstimatedEffort: "3h",
	},
	{
		ID:            "assumption-log",
		Name:          "Assumption Log",
		Category:      "pmbok-initiating",
		Priority:      PriorityLow,
		KnowledgeArea: "Integration Management",
		Dependencies:  []string{"project-charter"},
	},

	// PMBOK planning.
	{
		ID:            "scope-management-plan",
		Name:          "Scope Management Plan",
		Category:      "pmbok-planning",
		Priority:      PriorityCritical,
		KnowledgeArea: "Scope Management",
		Dependencies:  []string{"project-charter"},
	},
	{
		ID:            "requirements-management-plan",
		Name:          "Requirements Management Plan",
		Category:      "pmbok-planning",
		Priority:      PriorityHigh,
		KnowledgeArea: "Scope Management",
		Dependencies:  []string{"scope-management-plan"},
	},
	{
		ID:            "scope-statement",
		Name:          "Project Scope Statement",
		Category:      "pmbok-planning",
		Priority:      PriorityHigh,
		KnowledgeArea: "Scope Management",
		Dependencies:  []string{"scope-management-plan", "requirements-documentation"},
	},
	{
		ID:            "wbs",
		Name:          "Work Breakdown Structure",
		Category:      "pmbok-planning",
		Priority:      PriorityCritical,
		KnowledgeArea: "Scope Management",
		Dependencies:  []string{"scope-statement"},
	},
	{
		ID:            "wbs-dictionary",
		Name:          "WBS Dictionary",
		Category:      "pmbok-planning",
		Priority:      PriorityMedium,
		KnowledgeArea: "Scope Management",
		Dependencies:  []string{"wbs"},
	},
	{
		ID:            "scope-baseline",
		Name:          "Scope Baseline",
		Category:      "pmbok-planning",
		Priority:      PriorityHigh,
		KnowledgeArea: "Scope Management",
		Dependencies:  []string{"scope-statement", "wbs", "wbs-dictionary"},
	},
	{
		ID:            "schedule-management-plan",
		Name:          "Schedule Management Plan",
		Category:      "pmbok-planning",
		Priority:      PriorityHigh,
		KnowledgeArea: "Schedule Management",
		Dependencies:  []string{"project-charter"},
	},
	{
		ID:            "activity-list",
		Name:          "Activity List",
		Category:      "pmbok-planning",
		Priority:      PriorityMedium,
		KnowledgeArea: "Schedule Management",
		Dependencies:  []string{"wbs", "schedule-management-plan"},
	},
	{
		ID:            "milestone-list",
		Name:          "Milestone List",
		Category:      "pmbok-planning",
		Priority:      PriorityMedium,
		KnowledgeArea: "Schedule Management",
		Dependencies:  []string{"activity-list"},
	},
	{
		ID:            "cost-management-plan",
		Name:          "Cost Management Plan",
		Category:      "pmbok-planning",
		Priority:      PriorityHigh,
		KnowledgeArea: "Cost Management",
		Dependencies:  []string{"project-charter", "scope-baseline"},
	},
	{
		ID:            "quality-management-plan",
		Name:          "Quality Management Plan",
		Category:      "pmbok-planning",
		Priority:      PriorityHigh,
		KnowledgeArea: "Quality Management",
		Dependencies:  []string{"project-charter", "requirements-documentation"},
	},
	{
		ID:            "resource-management-plan",
		Name:          "Resource Management Plan",
		Category:      "pmbok-planning",
		Priority:      PriorityMedium,
		KnowledgeArea: "Resource Management",
		Dependencies:  []string{"project-charter"},
	},
	{
		ID:            "communication-management-plan",
		Name:          "Communications Management Plan",
		Category:      "pmbok-planning",
		Priority:      PriorityHigh,
		KnowledgeArea: "Communications Management",
		Dependencies:  []string{"stakeholder-register", "project-charter"},
	},
	{
		ID:            "risk-management-plan",
		Name:          "Risk Management Plan",
		Category:      "pmbok-planning",
		Priority:      PriorityCritical,
		KnowledgeArea: "Risk Management",
		Dependencies:  []string{"project-charter"},
	},
	{
		ID:            "risk-register",
		Name:          "Risk Register",
		Category:      "pmbok-planning",
		Priority:      PriorityHigh,
		KnowledgeArea: "Risk Management",
		Dependencies:  []string{"risk-management-plan"},
	},
	{
		ID:            "procurement-management-plan",
		Name:          "Procurement Management Plan",
		Category:      "pmbok-planning",
		Priority:      PriorityLow,
		KnowledgeArea: "Procurement Management",
		Dependencies:  []string{"scope-baseline"},
	},
	{
		ID:            "stakeholder-engagement-plan",
		Name:          "Stakeholder Engagement Plan",
		Category:      "pmbok-planning",
		Priority:      PriorityHigh,
		KnowledgeArea: "Stakeholder Management",
		Dependencies:  []string{"stakeholder-register", "communication-management-plan"},
	},
	{
		ID:            "requirements-traceability-matrix",
		Name:          "Requirements Traceability Matrix",
		Category:      "pmbok-planning",
		Priority:      PriorityHigh,
		KnowledgeArea: "Scope Management",
		Dependencies:  []string{"requirements-documentation", "project-charter"},
	},

	// DMBOK data management.
	{
		ID:            "data-governance-plan",
		Name:          "Data Governance Plan",
		Category:      "dmbok-governance",
		Priority:      PriorityHigh,
		KnowledgeArea: "Data Governance",
		Dependencies:  []string{"project-charter"},
	},
	{
		ID:            "data-architecture",
		Name:          "Data Architecture Overview",
		Category:      "dmbok-architecture",
		Priority:      PriorityMedium,
		KnowledgeArea: "Data Architecture",
		Dependencies:  []string{"data-governance-plan"},
	},
	{
		ID:            "data-quality-plan",
		Name:          "Data Quality Management Plan",
		Category:      "dmbok-quality",
		Priority:      PriorityMedium,
		KnowledgeArea: "Data Quality",
		Dependencies:  []string{"data-governance-plan"},
	},
	{
		ID:            "master-data-management-strategy",
		Name:          "Master Data Management Strategy",
		Category:      "dmbok-mdm",
		Priority:      PriorityLow,
		KnowledgeArea: "Master and Reference Data",
		Dependencies:  []string{"data-governance-plan", "data-architecture"},
	},
}

// builtinAliases maps the alternate spellings callers actually use (display
// names, old generator keys, storage ids from earlier releases) to canonical
// descriptor ids.
var builtinAliases = map[string]string{
	"Business Case Template":          "business-case",
	"strategic-statements/case":       "business-case",
	"Stakeholder Register Template":   "stakeholder-register",
	"stakeholders":                    "stakeholder-register",
	"Project Charter Template":        "project-charter",
	"charter":                         "project-charter",
	"pmbok/project-charter":           "project-charter",
	"scope-mgmt-plan":                 "scope-management-plan",
	"Scope Management Plan Template":  "scope-management-plan",
	"work-breakdown-structure":        "wbs",
	"Work Breakdown Structure (WBS)":  "wbs",
	"wbs-dict":                        "wbs-dictionary",
	"requirements":                    "requirements-documentation",
	"requirements-doc":                "requirements-documentation",
	"traceability-matrix":             "requirements-traceability-matrix",
	"rtm":                             "requirements-traceability-matrix",
	"comms-plan":                      "communication-management-plan",
	"communications-plan":             "communication-management-plan",
	"risk-plan":                       "risk-management-plan",
	"risks":                           "risk-register",
	"data-governance":                 "data-governance-plan",
	"dmbok/governance":                "data-governance-plan",
	"mdm-strategy":                    "master-data-management-strategy",
	"stories":                         "user-stories",
	"stakeholder-engagement":          "stakeholder-engagement-plan",
	"quality-plan":                    "quality-management-plan",
	"cost-plan":                       "cost-management-plan",
	"schedule-plan":                   "schedule-management-plan",
	"Business Analysis Plan Template": "business-analysis-plan",
}

// Builtin assembles a registry from the compiled-in descriptor and alias
// tables. Each call returns a fresh registry so callers may extend it without
// affecting one another.
func Builtin() *Registry {
	reg := NewRegistry()
	for _, desc := range builtinDescriptors {
		reg.MustRegister(desc)
	}
	for alias, target := range builtinAliases {
		reg.MustAlias(alias, target)
	}
	if err := reg.Validate(); err != nil {
		panic(err)
	}
	return reg
}
