// Package copywriter generates ad copy variations per advertising
// platform. It degrades gracefully: a configured model client produces
// campaign-specific copy seeded with the ad library's top performers,
// and built-in platform templates answer whenever the model is absent
// or fails.
package copywriter
