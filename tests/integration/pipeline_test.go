package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/srewoo/repospector/internal/config"
	"github.com/srewoo/repospector/internal/embedder"
	"github.com/srewoo/repospector/internal/index"
	"github.com/srewoo/repospector/internal/service"
	"github.com/srewoo/repospector/pkg/types"
)

// PipelineTestSuite drives the full chunk -> embed -> index -> retrieve
// pipeline against the local provider and a persistent SQLite index.
type PipelineTestSuite struct {
	suite.Suite
	ctx     context.Context
	cfg     config.Config
	index   index.VectorIndex
	service *service.Service
}

func (s *PipelineTestSuite) SetupTest() {
	s.ctx = context.Background()

	s.cfg = config.Default()
	s.cfg.DataDir = s.T().TempDir()

	idx, err := index.New(s.cfg.Backend, s.cfg.DataDir)
	s.Require().NoError(err)
	s.index = idx

	provider, err := embedder.New(s.cfg.EmbedderConfig())
	s.Require().NoError(err)

	s.service = service.New(provider, idx, s.cfg, nil)
}

func (s *PipelineTestSuite) TearDownTest() {
	s.Require().NoError(s.index.Close())
}

func fixtureRepo() []types.RepoFile {
	return []types.RepoFile{
		{
			Path: "internal/billing/invoice.go",
			Content: `package billing

// FinalizeInvoice closes an invoice and schedules payment collection.
func FinalizeInvoice(id string) error {
	inv, err := loadInvoice(id)
	if err != nil {
		return err
	}
	return inv.close()
}

func loadInvoice(id string) (*Invoice, error) {
	return store.Get(id)
}
`,
		},
		{
			Path: "internal/auth/session.go",
			Content: `package auth

// NewSession authenticates credentials and issues a session token.
func NewSession(user, password string) (string, error) {
	if !verify(user, password) {
		return "", ErrBadCredentials
	}
	return issueToken(user), nil
}
`,
		},
		{
			Path:    "README.md",
			Content: "# Demo service\n\nBilling and auth demo used by the pipeline tests.\n",
		},
	}
}

func (s *PipelineTestSuite) TestIndexThenRetrieve() {
	summary, err := s.service.IndexRepository(s.ctx, "demo/repo", fixtureRepo(), nil)
	s.Require().NoError(err)
	s.True(summary.Success)
	s.Equal(0, summary.FailedBatches())
	s.Equal(summary.ChunksTotal, summary.ChunksIndexed)
	s.Equal(3, summary.FilesChunked)

	// Querying with a chunk's own text guarantees an exact-match vector
	out := s.service.RetrieveContext(s.ctx, "demo/repo", fixtureRepo()[0].Content, 5, service.RetrieveOptions{})
	s.Require().NotNil(out)
	s.Contains(out.Sources, "internal/billing/invoice.go")
	s.Contains(out.Context, "FinalizeInvoice")
	s.Contains(out.Context, "relevance:")
}

func (s *PipelineTestSuite) TestQualityLifecycle() {
	quality, err := s.service.CheckIndexQuality(s.ctx, "demo/repo")
	s.Require().NoError(err)
	s.Equal(types.QualityNone, quality.Level)
	s.True(quality.SuggestReindex)

	_, err = s.service.IndexRepository(s.ctx, "demo/repo", fixtureRepo(), nil)
	s.Require().NoError(err)

	quality, err = s.service.CheckIndexQuality(s.ctx, "demo/repo")
	s.Require().NoError(err)
	s.NotEqual(types.QualityNone, quality.Level)
	s.Equal(3, quality.FilesCount)
}

func (s *PipelineTestSuite) TestReindexReplacesPreviousGeneration() {
	_, err := s.service.IndexRepository(s.ctx, "demo/repo", fixtureRepo(), nil)
	s.Require().NoError(err)

	smaller := fixtureRepo()[:1]
	_, err = s.service.IndexRepository(s.ctx, "demo/repo", smaller, nil)
	s.Require().NoError(err)

	quality, err := s.service.CheckIndexQuality(s.ctx, "demo/repo")
	s.Require().NoError(err)
	s.Equal(1, quality.FilesCount)

	out := s.service.RetrieveContext(s.ctx, "demo/repo", fixtureRepo()[1].Content, 5, service.RetrieveOptions{})
	s.NotContains(out.Sources, "internal/auth/session.go")
}

func (s *PipelineTestSuite) TestLargeRepositoryBatches() {
	files := make([]types.RepoFile, 30)
	for i := range files {
		var sb strings.Builder
		fmt.Fprintf(&sb, "package pkg%d\n\n", i)
		for j := 0; j < 3; j++ {
			fmt.Fprintf(&sb, "func Worker%dTask%d() {\n\tprocess()\n}\n\n", i, j)
		}
		files[i] = types.RepoFile{Path: fmt.Sprintf("pkg%d/worker.go", i), Content: sb.String()}
	}

	var batchEvents int
	summary, err := s.service.IndexRepository(s.ctx, "big/repo", files, func(p types.Progress) {
		if p.Stage == types.StageEmbedding {
			batchEvents++
		}
	})
	s.Require().NoError(err)

	s.Equal(30, summary.FilesChunked)
	s.Equal(len(summary.Batches), batchEvents)
	s.GreaterOrEqual(len(summary.Batches), 2, "30 files must span multiple batches of 20")
}

func (s *PipelineTestSuite) TestRetrievalDegradesOnEmptyIndex() {
	out := s.service.RetrieveContext(s.ctx, "never/indexed", "any query at all", 5, service.RetrieveOptions{})
	s.Require().NotNil(out)
	s.Empty(out.Context)
	s.Empty(out.Sources)
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}
