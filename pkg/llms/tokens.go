package llms

import (
	"github.com/getfitted/fitted/pkg/models"

	"github.com/pkoukk/tiktoken-go"
)

var _ models.TokenCounter = &TiktokenCounter{}

// TiktokenCounter counts tokens locally with the cl100k_base encoding, the
// encoding used by both text-embedding-3-small and the gpt-4o family. The
// embeddings endpoint reached through langchaingo does not surface usage, so
// billed embedding tokens are accounted with this counter.
type TiktokenCounter struct {
	tkm *tiktoken.Tiktoken
}

func NewTokenCounter() (*TiktokenCounter, error) {
	tkm, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &TiktokenCounter{tkm: tkm}, nil
}

func (c *TiktokenCounter) GetTokenCount(text string) (int, error) {
	return len(c.tkm.Encode(text, nil, nil)), nil
}
