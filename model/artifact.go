package model

import "strings"

// releaseIDReplacer removes the characters that are not allowed in the release identity.
var releaseIDReplacer = strings.NewReplacer("/", "-", "*", "-")

// ReleaseArtifact is a model that identifies what is being promoted.
type ReleaseArtifact struct {
	Registry string `json:"registry"`
	Image    string `json:"image"`
	Tag      string `json:"tag"`
	Branch   string `json:"branch"`
}

// Reference returns the full image reference including the registry prefix if it is set.
func (a ReleaseArtifact) Reference() string {
	ref := a.Image + ":" + a.Tag
	if a.Registry != "" {
		ref = a.Registry + "/" + ref
	}
	return ref
}

// ReleaseID derives the stable release identity from the image name, tag, and source branch.
// The same inputs always produce the same identity.
func (a ReleaseArtifact) ReleaseID() string {
	return releaseIDReplacer.Replace(a.Image + "-" + a.Tag + "-" + a.Branch)
}
