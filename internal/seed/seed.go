// Package seed derives the immutable identity root of a YADORI entity.
package seed

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// Perception is the species' dominant sensory channel.
type Perception string

const (
	Chromatic Perception = "chromatic"
	Vibration Perception = "vibration"
	Geometric Perception = "geometric"
	Thermal   Perception = "thermal"
	Temporal  Perception = "temporal"
	Chemical  Perception = "chemical"
)

// AllPerceptions enumerates the six species in a fixed, stable order.
var AllPerceptions = []Perception{Chromatic, Vibration, Geometric, Thermal, Temporal, Chemical}

// Temperament is the entity's behavioral disposition.
type Temperament string

const (
	CuriousCautious    Temperament = "curious-cautious"
	BoldImpulsive      Temperament = "bold-impulsive"
	CalmObservant      Temperament = "calm-observant"
	RestlessExploratory Temperament = "restless-exploratory"
)

// AllTemperaments enumerates the four temperaments in a fixed, stable order.
var AllTemperaments = []Temperament{CuriousCautious, BoldImpulsive, CalmObservant, RestlessExploratory}

// Form is the entity's physical manifestation archetype.
type Form string

const (
	LightParticles  Form = "light-particles"
	Fluid           Form = "fluid"
	Crystal         Form = "crystal"
	SoundEcho       Form = "sound-echo"
	Mist            Form = "mist"
	GeometricCluster Form = "geometric-cluster"
)

// AllForms enumerates the six base forms in a fixed, stable order.
var AllForms = []Form{LightParticles, Fluid, Crystal, SoundEcho, Mist, GeometricCluster}

// HardwareBody is the static host descriptor captured at genesis.
// The core never queries the host itself; this struct is handed in by
// a collaborator (see internal/hostdesc for the one this repo ships).
type HardwareBody struct {
	Platform string `json:"platform"`
	Arch     string `json:"arch"`
	MemoryGB int    `json:"memory_gb"`
	CPUModel string `json:"cpu_model"`
	StorageGB int   `json:"storage_gb"`
}

// SubTraits are five auxiliary personality dials in [0,100].
type SubTraits [5]int

// Seed is the entity's immutable identity, fixed at genesis.
type Seed struct {
	Perception   Perception   `json:"perception"`
	Expression   string       `json:"expression"`
	Cognition    string       `json:"cognition"`
	Temperament  Temperament  `json:"temperament"`
	Form         Form         `json:"form"`
	SubTraits    SubTraits    `json:"sub_traits"`
	HardwareBody HardwareBody `json:"hardware_body"`
	CreatedAt    time.Time    `json:"created_at"`
	Hash         string       `json:"hash"`
}

// expressions and cognitions are secondary descriptors drawn alongside
// perception/temperament/form; they do not gate any behaviour elsewhere
// in the core but are part of the canonical seed and its hash.
var expressions = []string{"luminous", "fluid", "angular", "resonant", "diffuse", "crystalline"}
var cognitions = []string{"associative", "sequential", "intuitive", "systematic", "recursive", "lateral"}

// entropySource abstracts the random source so create_fixed_seed and
// generate_seed can share canonicalisation/hash logic. It never wraps
// anything except crypto/rand in production.
type entropySource interface {
	intn(n int) (int, error)
}

type cryptoEntropy struct{}

func (cryptoEntropy) intn(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("seed: intn requires n > 0")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("seed: entropy unavailable: %w", err)
	}
	return int(v.Int64()), nil
}

// GenerateSeed derives a fresh Seed from the system entropy source and
// the hardware descriptor supplied by the collaborator (see
// internal/hostdesc). It fails only if entropy is unavailable.
func GenerateSeed(hw HardwareBody, now time.Time) (*Seed, error) {
	return generateSeed(cryptoEntropy{}, hw, now)
}

func generateSeed(ent entropySource, hw HardwareBody, now time.Time) (*Seed, error) {
	pick := func(n int) (int, error) { return ent.intn(n) }

	pi, err := pick(len(AllPerceptions))
	if err != nil {
		return nil, err
	}
	ti, err := pick(len(AllTemperaments))
	if err != nil {
		return nil, err
	}
	fi, err := pick(len(AllForms))
	if err != nil {
		return nil, err
	}
	ei, err := pick(len(expressions))
	if err != nil {
		return nil, err
	}
	ci, err := pick(len(cognitions))
	if err != nil {
		return nil, err
	}

	var traits SubTraits
	for i := range traits {
		v, err := pick(101)
		if err != nil {
			return nil, err
		}
		traits[i] = v
	}

	s := &Seed{
		Perception:   AllPerceptions[pi],
		Expression:   expressions[ei],
		Cognition:    cognitions[ci],
		Temperament:  AllTemperaments[ti],
		Form:         AllForms[fi],
		SubTraits:    traits,
		HardwareBody: hw,
		CreatedAt:    now,
	}
	s.Hash = computeHash(s)
	return s, nil
}

// FixedSeedOverrides lets tests pin every drawn field explicitly.
type FixedSeedOverrides struct {
	Perception  Perception
	Expression  string
	Cognition   string
	Temperament Temperament
	Form        Form
	SubTraits   SubTraits
	HardwareBody HardwareBody
	CreatedAt   time.Time
}

// CreateFixedSeed builds a Seed from explicit overrides, with no entropy
// draw at all. Used by tests and by deterministic-replay tooling.
func CreateFixedSeed(o FixedSeedOverrides) *Seed {
	s := &Seed{
		Perception:   o.Perception,
		Expression:   o.Expression,
		Cognition:    o.Cognition,
		Temperament:  o.Temperament,
		Form:         o.Form,
		SubTraits:    o.SubTraits,
		HardwareBody: o.HardwareBody,
		CreatedAt:    o.CreatedAt,
	}
	s.Hash = computeHash(s)
	return s
}

// computeHash returns the first 16 hex chars of SHA-256 over the seed's
// canonical form. Canonicalisation is a fixed field order so that two
// structurally-identical seeds always hash identically regardless of Go
// map iteration or JSON field order elsewhere in the program.
func computeHash(s *Seed) string {
	fields := []string{
		string(s.Perception),
		s.Expression,
		s.Cognition,
		string(s.Temperament),
		string(s.Form),
		traitsKey(s.SubTraits),
		s.HardwareBody.Platform,
		s.HardwareBody.Arch,
		itoa(s.HardwareBody.MemoryGB),
		s.HardwareBody.CPUModel,
		itoa(s.HardwareBody.StorageGB),
		s.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	h := sha256.New()
	for _, f := range fields {
		h.Write([]byte(f))
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)[:16]
}

func traitsKey(t SubTraits) string {
	b := make([]byte, 0, len(t)*8)
	for _, v := range t {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(int64(v)))
		b = append(b, buf[:]...)
	}
	return string(b)
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}
