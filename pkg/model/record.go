package model

import (
	"fmt"
	"time"
)

// UnknownSize marks a record whose file size has not been computed yet.
const UnknownSize int64 = -1

// PackageRecord captures the identity, version and provenance of a single
// RPM package file found in a cache directory.
//
// A record is created when the file's metadata has been successfully read,
// and is immutable afterwards, except for the lazily computed Size.
type PackageRecord struct {
	Name      string    `json:"name" yaml:"name"`
	Arch      string    `json:"arch" yaml:"arch"`
	Epoch     *int64    `json:"epoch,omitempty" yaml:"epoch,omitempty"`
	Version   string    `json:"version" yaml:"version"`
	Release   string    `json:"release" yaml:"release"`
	Path      string    `json:"path" yaml:"path"`
	Size      int64     `json:"size,omitempty" yaml:"size,omitempty"`
	BuildTime time.Time `json:"buildTime,omitempty" yaml:"buildTime,omitempty"`
}

// NewPackageRecord builds a record for a file path, with its size not yet known.
func NewPackageRecord(name, arch, version, release, path string) PackageRecord {
	return PackageRecord{
		Name:    name,
		Arch:    arch,
		Version: version,
		Release: release,
		Path:    path,
		Size:    UnknownSize,
	}
}

// Identity derives the grouping key for this record. When archSensitive is
// false, packages with the same name but different architectures share a key.
func (r PackageRecord) Identity(archSensitive bool) IdentityKey {
	if !archSensitive {
		return IdentityKey{Name: r.Name}
	}
	return IdentityKey{Name: r.Name, Arch: r.Arch}
}

// VersionKey derives the ordering key for this record.
func (r PackageRecord) VersionKey() VersionKey {
	return VersionKey{Epoch: r.Epoch, Version: r.Version, Release: r.Release}
}

// VR renders the version-release string, e.g. "1.2.3-1.fc30".
func (r PackageRecord) VR() string {
	return r.Version + "-" + r.Release
}

// IdentityKey distinguishes one logical package from another.
// Keys are comparable and totally ordered.
type IdentityKey struct {
	Name string `json:"name" yaml:"name"`
	Arch string `json:"arch,omitempty" yaml:"arch,omitempty"`
}

func (k IdentityKey) String() string {
	if k.Arch == "" {
		return k.Name
	}
	return k.Name + "." + k.Arch
}

// Less orders keys by name, then architecture.
func (k IdentityKey) Less(o IdentityKey) bool {
	if k.Name != o.Name {
		return k.Name < o.Name
	}
	return k.Arch < o.Arch
}

// VersionKey is the epoch/version/release triple used to decide which of two
// package records is newer. It is used only for ordering, never for identity.
type VersionKey struct {
	Epoch   *int64 `json:"epoch,omitempty" yaml:"epoch,omitempty"`
	Version string `json:"version" yaml:"version"`
	Release string `json:"release" yaml:"release"`
}

func (v VersionKey) String() string {
	if v.Epoch != nil {
		return fmt.Sprintf("%d:%s-%s", *v.Epoch, v.Version, v.Release)
	}
	return v.Version + "-" + v.Release
}
