package diffengine

// Options configures a DiffCommits call.
type Options struct {
	// ListIgnored suppresses IGNORED events entirely when false.
	// Defaults to true.
	ListIgnored bool

	// UserIgnoreContents and SystemIgnoreContents seed the two
	// outermost IgnoreStack frames shared by the whole run.
	UserIgnoreContents   []byte
	SystemIgnoreContents []byte

	// LoadGitignore fetches a per-directory ignore file's contents.
	// A nil hook behaves as if every directory's ignore file is empty.
	LoadGitignore LoadGitignoreFunc

	// SuppressedAdminNames overrides the administrative-directory
	// set. A nil map uses DefaultSuppressedAdminNames.
	SuppressedAdminNames map[string]struct{}

	// Logger receives optional debug tracing of the traversal. A nil
	// Logger uses DefaultLogger (discards everything).
	Logger Logger
}

// DefaultOptions returns the standard defaults: list_ignored = true,
// the initial {".hg", ".eden"} suppression set.
func DefaultOptions() Options {
	return Options{
		ListIgnored:          true,
		SuppressedAdminNames: DefaultSuppressedAdminNames(),
	}
}

func (o Options) resolve() Options {
	if o.SuppressedAdminNames == nil {
		o.SuppressedAdminNames = DefaultSuppressedAdminNames()
	}
	if o.Logger == nil {
		o.Logger = DefaultLogger
	}
	return o
}
