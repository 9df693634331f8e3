package copywriter

// TemplateVariations returns the built-in copy set for a platform.
// Unknown platforms get the meta copy. The defaults are tuned for the
// construction IoT vertical the service first shipped with; the
// generative path produces campaign-specific copy when configured.
func TemplateVariations(platform string) *Variations {
	switch platform {
	case "linkedin":
		return &Variations{
			Headlines: []string{
				"Reduce Project Delays by 30%",
				"Smart Monitoring for Construction Sites",
				"1000+ Sites Trust Our Solution",
			},
			Descriptions: []string{
				"Real-time insights. Instant alerts. Zero training needed.",
				"Cut waiting times. Improve safety. Boost productivity.",
				"Professional IoT solution for modern construction.",
			},
			CTAs: []string{"Get Demo", "Learn More", "See Results"},
		}
	case "google_ads":
		return &Variations{
			Headlines: []string{
				"Construction Site Efficiency",
				"Smart Elevator Monitoring",
				"30% Less Waiting Time",
			},
			Descriptions: []string{
				"Quick setup. Immediate results.",
				"Install in 10 minutes. See results today.",
				"Trusted by major contractors.",
			},
			CTAs: []string{"Start Free Trial", "Get Quote", "Learn More"},
		}
	default:
		return &Variations{
			Headlines: []string{
				"Still Using Paper Logs?",
				"Construction Just Got Smarter",
				"Join 1000+ Smart Sites",
			},
			Descriptions: []string{
				"Transform your site operations with one simple device.",
				"See why contractors are switching to smart monitoring.",
				"Real results from real construction sites.",
			},
			CTAs: []string{"See How", "Watch Demo", "Get Started"},
		}
	}
}
