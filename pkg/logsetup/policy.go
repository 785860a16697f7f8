package logsetup

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// windowPlaceholder is replaced by the archive index in a window pattern.
const windowPlaceholder = "{}"

// maxSizeLimitKB is the largest kilobyte limit that fits in bytes.
const maxSizeLimitKB = math.MaxUint64 / 1024

// RotationPolicy rolls a file once it would grow past SizeLimitBytes,
// keeping at most WindowCount archives named after WindowPattern.
//
// The newest archive has index 1. A pattern containing "{}" has it replaced
// by the index ("logs/app.{}.log"); any other pattern gets ".<index>"
// appended. A WindowCount of 0 discards the file on every roll.
type RotationPolicy struct {
	SizeLimitBytes uint64 `validate:"gt=0"`
	WindowPattern  string `validate:"required"`
	WindowCount    uint32
}

// ArchiveName returns the path of the archive with the given index.
func (p RotationPolicy) ArchiveName(index int) string {
	n := strconv.Itoa(index)
	if strings.Contains(p.WindowPattern, windowPlaceholder) {
		return strings.ReplaceAll(p.WindowPattern, windowPlaceholder, n)
	}
	return p.WindowPattern + "." + n
}

// PolicyBuilder assembles a RotationPolicy from a size trigger and a fixed
// window roller. Both parts are required.
type PolicyBuilder struct {
	sizeLimit uint64
	sizeSet   bool
	sizeErr   error
	pattern   string
	count     uint32
	windowSet bool
}

// NewPolicy returns an empty PolicyBuilder.
func NewPolicy() *PolicyBuilder {
	return &PolicyBuilder{}
}

// SizeLimit sets the size trigger in kilobytes. A limit too large to
// express in bytes is reported by Build as ErrInvalidPolicy.
func (p *PolicyBuilder) SizeLimit(kb uint64) *PolicyBuilder {
	if kb > maxSizeLimitKB {
		p.sizeLimit = 0
		p.sizeSet = true
		p.sizeErr = errors.Wrapf(ErrInvalidPolicy, "size limit %d KB overflows", kb)
		return p
	}
	return p.SizeLimitBytes(kb * 1024)
}

// SizeLimitBytes sets the size trigger in bytes.
func (p *PolicyBuilder) SizeLimitBytes(n uint64) *PolicyBuilder {
	p.sizeLimit = n
	p.sizeSet = true
	p.sizeErr = nil
	return p
}

// Window sets the fixed window roller.
func (p *PolicyBuilder) Window(pattern string, count uint32) *PolicyBuilder {
	p.pattern = pattern
	p.count = count
	p.windowSet = true
	return p
}

// Build validates and returns the policy.
func (p *PolicyBuilder) Build() (RotationPolicy, error) {
	if p == nil {
		return RotationPolicy{}, ErrNoPolicy
	}
	if !p.sizeSet {
		return RotationPolicy{}, ErrNoSizeTrigger
	}
	if !p.windowSet {
		return RotationPolicy{}, ErrNoFixedWindowRoller
	}
	if p.sizeErr != nil {
		return RotationPolicy{}, p.sizeErr
	}

	policy := RotationPolicy{
		SizeLimitBytes: p.sizeLimit,
		WindowPattern:  p.pattern,
		WindowCount:    p.count,
	}
	if err := validateStruct(policy); err != nil {
		return RotationPolicy{}, errors.Mark(errors.Wrap(err, "validating rotation policy"), ErrInvalidPolicy)
	}
	return policy, nil
}
