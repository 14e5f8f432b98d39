package prompts

import (
	"fmt"
	"strings"
)

// domainRoles carries a short role preamble per analysis domain. Unknown
// domain strings still build a valid prompt; validation of domains is not
// this package's job.
var domainRoles = map[string]string{
	"finance":       "You are a quantitative analyst specializing in portfolio and market data.",
	"healthcare":    "You are a medical AI assistant specializing in clinical data analysis. This is for informational purposes only.",
	"ecommerce":     "You are an e-commerce optimization specialist with expertise in data-driven business decisions.",
	"logistics":     "You are a logistics optimization expert specializing in supply chain efficiency.",
	"manufacturing": "You are a manufacturing analyst focused on production and quality data.",
	"realestate":    "You are a real estate market analyst.",
	"education":     "You are an education data analyst.",
	"environmental": "You are an environmental data analyst.",
	"generic":       "You are an AI data analyst specializing in pattern recognition and predictive insights.",
}

// Build combines the domain-scoped instruction with the integration's
// display name. The returned prompt is handed to the inference client as-is.
func Build(domain, systemName string) string {
	base := fmt.Sprintf("Analyze this %s data from external system '%s' and provide comprehensive insights:", domain, systemName)
	if role, ok := domainRoles[strings.ToLower(domain)]; ok {
		return role + "\n\n" + base
	}
	return base
}

// KnownDomains lists the domains that carry a role preamble.
func KnownDomains() []string {
	out := make([]string, 0, len(domainRoles))
	for domain := range domainRoles {
		out = append(out, domain)
	}
	return out
}

// IsKnown reports whether the domain has a dedicated role preamble.
func IsKnown(domain string) bool {
	_, ok := domainRoles[strings.ToLower(domain)]
	return ok
}
