package custom_flags_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"

	"github.com/hexmaps/hexmaps/custom_flags"
)

func TestCustomFlags(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Custom Flags Suite")
}

var _ = Describe("LatLngFlag", func() {
	var (
		flag    custom_flags.LatLngFlag
		assertT *assert.Assertions
	)

	BeforeEach(func() {
		assertT = assert.New(GinkgoT())
		flag = custom_flags.NewLatLngFlag("center")
	})

	Describe("initialization", func() {
		It("should set correct flag name", func() {
			assertT.Equal("center", flag.FlagName())
		})

		It("should have lat,lng type", func() {
			assertT.Equal("lat,lng", flag.Type())
		})

		It("should initialize unset with empty value", func() {
			assertT.False(flag.IsSet())
			assertT.Equal("", flag.String())
		})
	})

	Describe("Set method", func() {
		Context("when provided valid coordinates", func() {
			It("should accept a lat,lng pair", func() {
				err := flag.Set("48.8566,2.3522")
				assertT.NoError(err)
				assertT.True(flag.IsSet())
				assertT.InDelta(48.8566, flag.Point().Lat(), 1e-9)
				assertT.InDelta(2.3522, flag.Point().Lon(), 1e-9)
			})

			It("should accept whitespace around components", func() {
				err := flag.Set(" 48.8566 , 2.3522 ")
				assertT.NoError(err)
				assertT.Equal("48.8566,2.3522", flag.String())
			})
		})

		Context("when provided invalid values", func() {
			It("should reject a single component", func() {
				assertT.Error(flag.Set("48.8566"))
			})

			It("should reject non-numeric components", func() {
				assertT.Error(flag.Set("north,east"))
			})

			It("should reject out-of-range coordinates", func() {
				assertT.Error(flag.Set("91,0"))
				assertT.Error(flag.Set("0,181"))
			})
		})
	})
})

var _ = Describe("BBoxFlag", func() {
	var (
		flag    custom_flags.BBoxFlag
		assertT *assert.Assertions
	)

	BeforeEach(func() {
		assertT = assert.New(GinkgoT())
		flag = custom_flags.NewBBoxFlag("bbox")
	})

	Describe("initialization", func() {
		It("should set correct flag name", func() {
			assertT.Equal("bbox", flag.FlagName())
		})

		It("should have bbox type", func() {
			assertT.Equal("bbox", flag.Type())
		})

		It("should initialize unset", func() {
			assertT.False(flag.IsSet())
		})
	})

	Describe("Set method", func() {
		Context("when provided a valid box", func() {
			It("should accept south,west,north,east order", func() {
				err := flag.Set("48.8,2.2,48.95,2.5")
				assertT.NoError(err)
				assertT.True(flag.IsSet())
				assertT.InDelta(48.8, flag.Value().South, 1e-9)
				assertT.InDelta(2.2, flag.Value().West, 1e-9)
				assertT.InDelta(48.95, flag.Value().North, 1e-9)
				assertT.InDelta(2.5, flag.Value().East, 1e-9)
			})

			It("should round trip through String", func() {
				assertT.NoError(flag.Set("48.8,2.2,48.95,2.5"))
				assertT.Equal("48.8,2.2,48.95,2.5", flag.String())
			})
		})

		Context("when provided invalid values", func() {
			It("should reject the wrong number of corners", func() {
				assertT.Error(flag.Set("48.8,2.2,48.95"))
			})

			It("should reject non-numeric corners", func() {
				assertT.Error(flag.Set("a,b,c,d"))
			})

			It("should reject south above north", func() {
				assertT.Error(flag.Set("48.95,2.2,48.8,2.5"))
			})
		})
	})
})

var _ = Describe("ResolutionFlag", func() {
	var (
		flag    custom_flags.ResolutionFlag
		assertT *assert.Assertions
	)

	BeforeEach(func() {
		assertT = assert.New(GinkgoT())
		flag = custom_flags.NewResolutionFlag("resolution", 9)
	})

	Describe("initialization", func() {
		It("should carry the default", func() {
			assertT.Equal(9, flag.Value())
			assertT.Equal("9", flag.String())
		})

		It("should panic on an out-of-range default", func() {
			assertT.Panics(func() {
				custom_flags.NewResolutionFlag("resolution", 16)
			})
		})
	})

	Describe("Set method", func() {
		It("should accept values from 0 to 15", func() {
			assertT.NoError(flag.Set("0"))
			assertT.Equal(0, flag.Value())
			assertT.NoError(flag.Set("15"))
			assertT.Equal(15, flag.Value())
		})

		It("should reject values above 15", func() {
			assertT.Error(flag.Set("16"))
		})

		It("should reject non-integers", func() {
			assertT.Error(flag.Set("-1"))
			assertT.Error(flag.Set("nine"))
		})
	})
})

var _ = Describe("FilePathFlag", func() {
	var (
		flag    custom_flags.FilePathFlag
		assertT *assert.Assertions
	)

	BeforeEach(func() {
		assertT = assert.New(GinkgoT())
		flag = custom_flags.NewFilePathFlag("output")
	})

	Describe("Set method", func() {
		It("should accept absolute and relative paths", func() {
			assertT.NoError(flag.Set("/tmp/map.html"))
			assertT.Equal("/tmp/map.html", flag.String())
			assertT.NoError(flag.Set("maps/paris.html"))
		})

		It("should reject empty and whitespace values", func() {
			assertT.Error(flag.Set(""))
			assertT.Error(flag.Set("   "))
		})
	})
})

var _ = Describe("UnionFlag", func() {
	var (
		flag    custom_flags.UnionFlag
		assertT *assert.Assertions
	)

	BeforeEach(func() {
		assertT = assert.New(GinkgoT())
		flag = custom_flags.NewUnionFlag([]string{"random", "straight"}, "kind", "random")
	})

	Describe("initialization", func() {
		It("should carry the default and allowed values", func() {
			assertT.Equal("random", flag.String())
			assertT.Equal([]string{"random", "straight"}, flag.AllowedValues())
		})

		It("should panic on a default outside the allowed values", func() {
			assertT.Panics(func() {
				custom_flags.NewUnionFlag([]string{"random", "straight"}, "kind", "sideways")
			})
		})
	})

	Describe("Set method", func() {
		It("should accept allowed values", func() {
			assertT.NoError(flag.Set("straight"))
			assertT.Equal("straight", flag.String())
		})

		It("should reject other values", func() {
			assertT.Error(flag.Set("sideways"))
		})
	})
})
