//go:build !lilt_tap

package report

const buildMode = ModeHuman
