// Package config loads episode project files: the camera sources, manual
// overrides, and switching/layout preferences that drive a cut. Projects are
// TOML or YAML, chosen by file extension. Loading applies defaults, clamps
// malformed numerics to their documented ranges, and validates everything a
// typo could break; downstream code may assume a loaded Project is coherent.
package config
