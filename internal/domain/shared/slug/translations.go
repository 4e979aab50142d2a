package slug

// RoleTranslations maps Portuguese role names to their canonical
// English slugs. Keyword matching in the generator means "Analista
// Financeiro Sênior" still resolves to "financial-analyst".
func RoleTranslations() map[string]string {
	return map[string]string{
		// Administration
		"administrador": "admin",
		"admin":         "admin",
		"gerente":       "manager",
		"supervisor":    "supervisor",
		"coordenador":   "coordinator",
		"diretor":       "director",
		"presidente":    "president",

		// Users
		"usuário":   "user",
		"cliente":   "client",
		"visitante": "visitor",
		"convidado": "guest",
		"membro":    "member",
		"assinante": "subscriber",

		// Technical
		"desenvolvedor": "developer",
		"programador":   "programmer",
		"analista":      "analyst",
		"arquiteto":     "architect",
		"engenheiro":    "engineer",
		"técnico":       "technician",
		"suporte":       "support",

		// Sales and marketing
		"vendedor":      "salesperson",
		"consultor":     "consultant",
		"representante": "representative",
		"comercial":     "sales",
		"atendimento":   "customer-service",

		// Finance
		"contador":            "accountant",
		"financeiro":          "financial",
		"tesoureiro":          "treasurer",
		"auditor":             "auditor",
		"analista financeiro": "financial-analyst",

		// Human resources
		"recursos humanos": "human-resources",
		"recrutador":       "recruiter",

		// Operations
		"operador":    "operator",
		"operacional": "operational",
		"produção":    "production",
		"qualidade":   "quality",
		"logística":   "logistics",

		// Moderation
		"moderador": "moderator",
		"editor":    "editor",
		"revisor":   "reviewer",
	}
}
