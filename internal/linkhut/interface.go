package linkhut

import "context"

// ClientInterface defines the interface for the LinkHut API client.
type ClientInterface interface {
	RecentPosts(ctx context.Context, count int, tag string) (*PostsResult, error)
	GetPosts(ctx context.Context, q GetQuery) (*PostsResult, error)
	AddPost(ctx context.Context, req AddRequest) (*Result, error)
	DeletePost(ctx context.Context, postURL string) (*Result, error)
	SuggestTags(ctx context.Context, postURL string) ([]string, bool)
	RenameTag(ctx context.Context, oldTag, newTag string) (*Result, error)
	DeleteTag(ctx context.Context, tag string) (*Result, error)
}

var _ ClientInterface = (*Client)(nil)
