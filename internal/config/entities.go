package config

import "github.com/voice-for-nature/wadden-sea/internal/registry"

// DefaultEntities returns the built-in entity table. Deployments override
// it through the entities section of the config file.
func DefaultEntities() map[string]registry.EntityConfig {
	return map[string]registry.EntityConfig{
		"seal": {
			Description:    "Harbor and grey seal populations of the Wadden Sea",
			DatabaseName:   "wadden",
			ContainerName:  "seal_documents",
			GroundedPrompt: "Answer using only the seal knowledge base.",
		},
		"seagrass": {
			Description:    "Seagrass meadows, monitoring and restoration",
			DatabaseName:   "wadden",
			ContainerName:  "seagrass_documents",
			GroundedPrompt: "Answer using only the seagrass knowledge base.",
		},
		"general": {
			Description:    "General marine biology questions, no knowledge base",
			SimpleQuery:    true,
			GroundedPrompt: "You are a marine biology assistant for the Wadden Sea region.",
		},
	}
}
