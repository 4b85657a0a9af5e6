package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
)

func TestLambertian_PDFCalculation(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.8, 0.8)
	lambertian := NewLambertian(albedo)
	sampler := core.NewRandSampler(rand.New(rand.NewSource(42)))

	normal := core.NewVec3(0, 0, 1)
	sp := &geometry.SurfacePoint{P: core.NewVec3(0, 0, 0), Ns: normal, FrontFace: true}
	wo := core.NewVec3(0, 0, 1)

	for i := 0; i < 100; i++ {
		sample, ok := lambertian.SampleBsdf(wo, sp, sampler)
		if !ok {
			t.Fatal("Lambertian should always scatter")
		}

		cosTheta := sample.Wi.Normalize().Dot(normal)
		expectedPDF := cosTheta / math.Pi
		tolerance := 1e-10
		if math.Abs(sample.Pdf-expectedPDF) > tolerance {
			t.Errorf("PDF mismatch: got %f, expected %f", sample.Pdf, expectedPDF)
		}
	}
}

func TestLambertian_EnergyConservation(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.7, 0.9)
	lambertian := NewLambertian(albedo)
	sampler := core.NewRandSampler(rand.New(rand.NewSource(42)))

	sp := &geometry.SurfacePoint{P: core.NewVec3(0, 0, 0), Ns: core.NewVec3(0, 0, 1), FrontFace: true}
	wo := core.NewVec3(0, 0, 1)

	sample, ok := lambertian.SampleBsdf(wo, sp, sampler)
	if !ok {
		t.Fatal("Lambertian should always scatter")
	}

	expectedBRDF := albedo.Multiply(1.0 / math.Pi)
	tolerance := 1e-10
	if math.Abs(sample.Attenuation.X-expectedBRDF.X) > tolerance ||
		math.Abs(sample.Attenuation.Y-expectedBRDF.Y) > tolerance ||
		math.Abs(sample.Attenuation.Z-expectedBRDF.Z) > tolerance {
		t.Errorf("BRDF mismatch: got %v, expected %v", sample.Attenuation, expectedBRDF)
	}

	if sample.Attenuation.X > albedo.X ||
		sample.Attenuation.Y > albedo.Y ||
		sample.Attenuation.Z > albedo.Z {
		t.Errorf("BRDF %v exceeds albedo %v (energy violation)", sample.Attenuation, albedo)
	}
}

func TestLambertian_EvalBsdfMatchesSample(t *testing.T) {
	albedo := core.NewVec3(0.6, 0.4, 0.2)
	lambertian := NewLambertian(albedo)
	sp := &geometry.SurfacePoint{P: core.NewVec3(0, 0, 0), Ns: core.NewVec3(0, 0, 1), FrontFace: true}
	wo := core.NewVec3(0, 0, 1)
	wi := core.NewVec3(0, 0, 1)

	eval := lambertian.EvalBsdf(wo, wi, sp)
	expected := albedo.Multiply(1.0 / math.Pi)
	if eval != expected {
		t.Errorf("EvalBsdf mismatch: got %v, expected %v", eval, expected)
	}

	below := lambertian.EvalBsdf(wo, core.NewVec3(0, 0, -1), sp)
	if below != (core.Vec3{}) {
		t.Errorf("EvalBsdf below surface should be zero, got %v", below)
	}
}

func TestLambertian_IsSpecularFalse(t *testing.T) {
	if NewLambertian(core.NewVec3(1, 1, 1)).IsSpecular() {
		t.Error("Lambertian should never be specular")
	}
}
