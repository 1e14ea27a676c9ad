package keywords

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/internal/config"
	"resumatch/pkg/models"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Scoring.TitleTermBonus = 2.0
	cfg.Redis.Timeout = 0
	return cfg
}

func TestBuild_ExtractsWeightedTerms(t *testing.T) {
	builder := NewBuilder(testConfig())

	posting := models.JobPosting{
		Title:       "Python Engineer",
		Description: "We are looking for a Python engineer with AWS and Docker experience.",
	}

	model := builder.Build(posting)
	require.False(t, model.IsEmpty())

	// Boilerplate ("looking", "experience", "engineer") and function words
	// never enter the model.
	assert.Len(t, model.Weights, 3)
	assert.Contains(t, model.Weights, "python")
	assert.Contains(t, model.Weights, "aws")
	assert.Contains(t, model.Weights, "docker")

	// Title overlap doubles the term's weight.
	assert.Equal(t, 2.0, model.Weights["python"])
	assert.Equal(t, 1.0, model.Weights["aws"])
	assert.Equal(t, 1.0, model.Weights["docker"])
}

func TestBuild_DisplayKeepsSurfaceForm(t *testing.T) {
	builder := NewBuilder(testConfig())

	model := builder.Build(models.JobPosting{
		Title:       "Backend Developer",
		Description: "Experience with Docker and Kubernetes deployments.",
	})

	assert.Equal(t, "Docker", model.Display["docker"])
	assert.Equal(t, "Kubernetes", model.Display[Stem("kubernetes")])
}

func TestBuild_TitleTermAbsentFromDescription(t *testing.T) {
	builder := NewBuilder(testConfig())

	model := builder.Build(models.JobPosting{
		Title:       "Golang Developer",
		Description: "Build microservices with Kafka.",
	})

	// Title-only terms enter the model at the bonus weight.
	assert.Equal(t, 2.0, model.Weights["golang"])
}

func TestBuild_FrequencyWeighting(t *testing.T) {
	builder := NewBuilder(testConfig())

	model := builder.Build(models.JobPosting{
		Description: "Python services. Python tooling. Terraform.",
	})

	assert.Equal(t, 2.0, model.Weights["python"])
	assert.Equal(t, 1.0, model.Weights["terraform"])
}

func TestBuild_Deterministic(t *testing.T) {
	builder := NewBuilder(testConfig())
	posting := models.JobPosting{
		Title:       "Data Engineer",
		Description: "Spark, Airflow and Snowflake pipelines at scale.",
	}

	first := builder.Build(posting)
	second := builder.Build(posting)

	assert.Equal(t, first.Weights, second.Weights)
	assert.Equal(t, first.Display, second.Display)
}

func TestBuild_EmptyDescription(t *testing.T) {
	builder := NewBuilder(testConfig())

	model := builder.Build(models.JobPosting{Description: "   "})
	assert.True(t, model.IsEmpty())
}

func TestBuild_CompoundTechTokens(t *testing.T) {
	builder := NewBuilder(testConfig())

	model := builder.Build(models.JobPosting{
		Description: "Familiarity with c++, c# and node.js required.",
	})

	assert.Contains(t, model.Weights, "c++")
	assert.Contains(t, model.Weights, "c#")
	assert.Contains(t, model.Weights, "node.js")
}

func TestBuild_IgnoresBareNumbers(t *testing.T) {
	builder := NewBuilder(testConfig())

	model := builder.Build(models.JobPosting{
		Description: "5 years with 2026 tooling and Rust.",
	})

	assert.Len(t, model.Weights, 2)
	assert.Contains(t, model.Weights, "rust")
	assert.Contains(t, model.Weights, "tool")
}

func TestCleanDescription_StripsHTML(t *testing.T) {
	html := "<div><h2>About</h2><ul><li>Python</li><li>Docker</li></ul>" +
		"<script>track()</script></div>"

	text := CleanDescription(html)

	assert.Contains(t, text, "Python")
	assert.Contains(t, text, "Docker")
	assert.NotContains(t, text, "track()")
	assert.NotContains(t, text, "<li>")
}

func TestCleanDescription_PlainTextPassthrough(t *testing.T) {
	plain := "Python and Docker. Salary < 100k > 50k."
	assert.Equal(t, plain, CleanDescription(plain))
}

func TestTermCounts_MatchesBuildStems(t *testing.T) {
	builder := NewBuilder(testConfig())

	model := builder.Build(models.JobPosting{
		Description: "Deploying containerized services.",
	})
	counts := TermCounts("I deployed containerized services to production.")

	for stem := range model.Weights {
		assert.Contains(t, counts, stem, "resume side should collapse to the same stem")
	}
}

func TestStem(t *testing.T) {
	cases := map[string]string{
		"libraries":        "library",
		"deployed":         "deploy",
		"testing":          "test",
		"containers":       "container",
		"containerization": "containerize",
		"quickly":          "quick",
		"aws":              "aws",
		"python":           "python",
	}
	for in, want := range cases {
		assert.Equal(t, want, Stem(in), "Stem(%q)", in)
	}
}

func TestCache_MemoizesPerContent(t *testing.T) {
	cache := NewCache(testConfig(), nil)
	posting := models.JobPosting{
		ID:          "job-1",
		Title:       "Python Engineer",
		Description: "Python and AWS.",
	}

	first := cache.Get(context.Background(), posting)
	second := cache.Get(context.Background(), posting)
	assert.Same(t, first, second)

	// An edited description is a different cache entry.
	posting.Description = "Python, AWS and Docker."
	third := cache.Get(context.Background(), posting)
	assert.NotSame(t, first, third)
	assert.Contains(t, third.Weights, "docker")
}

func TestCache_ConcurrentGetsAgree(t *testing.T) {
	cache := NewCache(testConfig(), nil)
	posting := models.JobPosting{
		ID:          "job-2",
		Description: "Go, Kafka and Postgres experience.",
	}

	var wg sync.WaitGroup
	results := make([]*Model, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.Get(context.Background(), posting)
		}(i)
	}
	wg.Wait()

	for _, m := range results[1:] {
		assert.Equal(t, results[0].Weights, m.Weights)
	}
}
