package augment

import (
	"context"

	"github.com/corkapps/grounding-gateway/internal/domain/search"
)

type fakeSearcher struct {
	calls   int
	queries []search.Query
	result  search.Result
}

func (f *fakeSearcher) Search(_ context.Context, q search.Query) search.Result {
	f.calls++
	f.queries = append(f.queries, q)
	return f.result
}

type fakeModel struct {
	calls        int
	prompts      []Prompt
	images       []Image
	reply        string
	err          error
	unconfigured bool
}

func (f *fakeModel) Configured() bool {
	return !f.unconfigured
}

func (f *fakeModel) GenerateWithImage(ctx context.Context, prompt Prompt, image Image) (string, error) {
	f.images = append(f.images, image)
	return f.Generate(ctx, prompt)
}

func (f *fakeModel) Generate(_ context.Context, prompt Prompt) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}
