package vtree

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

// config collects every Build option named in spec.md §6, defaulted the
// way the spec describes. Expressed as functional options (grounded on
// _examples/gfbonny-cxdb/clients/go/fstree/options.go) rather than either
// a 19-parameter positional signature or one giant exported struct, since
// the former is unreadable at call sites and the latter hides which
// fields the caller actually meant to set.
type config struct {
	sourceRoots             []string
	selectedDirectories     []string
	rootFolderLabel         string
	expandFoldersByDefault  bool
	selectNewFilesByDefault bool
	preferDeepestRoot       bool
	sortChildrenByName      bool
	stripPrefixes           []string
	autoPickVisibleRoot     bool
	visibleRootMaxHoistLevels *int // nil = unlimited
	visibleRootIgnoreVirtualFiles bool
	mergeVirtualIntoRealFolders   bool
	caseInsensitivePaths          bool
	unicodeNormalize              UnicodeNormalizeFunc
	autoComputeAnchors            bool
	omitContainerRowAtRoot        bool
	sortDelegate                  SortDelegate
	logger                         *logrus.Logger
}

func defaultConfig() *config {
	defaultHoist := 2
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return &config{
		rootFolderLabel:               "tree",
		expandFoldersByDefault:        true,
		selectNewFilesByDefault:       true,
		preferDeepestRoot:             false,
		sortChildrenByName:            true,
		autoPickVisibleRoot:           true,
		visibleRootMaxHoistLevels:     &defaultHoist,
		visibleRootIgnoreVirtualFiles: true,
		mergeVirtualIntoRealFolders:   true,
		caseInsensitivePaths:          true,
		unicodeNormalize:              norm.NFC.String,
		autoComputeAnchors:            true,
		omitContainerRowAtRoot:        false,
		sortDelegate:                  AlphabeticalSortDelegate,
		logger:                        logger,
	}
}

// BuildOption configures a Build call. See the With* functions below for
// the option catalog; each corresponds 1:1 to a parameter in spec.md §6.
type BuildOption func(*config)

// WithSourceRoots sets legacy source roots always included in the anchor
// universe (spec.md §4.2).
func WithSourceRoots(roots ...string) BuildOption {
	return func(c *config) { c.sourceRoots = roots }
}

// WithSelectedDirectories sets directories the caller directly selected
// (spec.md §4.2-§4.3). A selected directory that survives as a top anchor
// gets origin=direct. One that holds no files and lies below a top anchor
// is materialized as a chain whose leaf is direct and whose intermediate
// folders are inferred. One that holds files and lies below another top
// anchor stays inferred.
func WithSelectedDirectories(dirs ...string) BuildOption {
	return func(c *config) { c.selectedDirectories = dirs }
}

// WithRootFolderLabel overrides the container folder's display name (default "tree").
func WithRootFolderLabel(label string) BuildOption {
	return func(c *config) { c.rootFolderLabel = label }
}

// WithExpandFoldersByDefault sets the initial IsExpanded bit baked into folder nodes.
func WithExpandFoldersByDefault(v bool) BuildOption {
	return func(c *config) { c.expandFoldersByDefault = v }
}

// WithSelectNewFilesByDefault sets the initial IsSelected bit baked into file nodes.
func WithSelectNewFilesByDefault(v bool) BuildOption {
	return func(c *config) { c.selectNewFilesByDefault = v }
}

// WithPreferDeepestRoot inverts anchor compression's dominance rule: when
// true, of mutually-ancestral candidates the deepest is kept instead of
// the shallowest (spec.md §9 Open Question, resolved per that note).
func WithPreferDeepestRoot(v bool) BuildOption {
	return func(c *config) { c.preferDeepestRoot = v }
}

// WithSortChildrenByName enables the stable child sorter (spec.md §4.7). Default true.
func WithSortChildrenByName(v bool) BuildOption {
	return func(c *config) { c.sortChildrenByName = v }
}

// WithSortDelegate overrides the default alphabetical child sort delegate.
func WithSortDelegate(d SortDelegate) BuildOption {
	return func(c *config) { c.sortDelegate = d }
}

// WithStripPrefixes sets prefixes stripped from display source paths (spec.md §4.6).
func WithStripPrefixes(prefixes ...string) BuildOption {
	return func(c *config) { c.stripPrefixes = prefixes }
}

// WithAutoPickVisibleRoot enables visible-root hoisting (spec.md §4.8). Default true.
func WithAutoPickVisibleRoot(v bool) BuildOption {
	return func(c *config) { c.autoPickVisibleRoot = v }
}

// WithVisibleRootMaxHoistLevels bounds how many single-folder-chain levels
// hoisting may traverse. Pass nil for unlimited (spec.md §4.8). Default 2.
func WithVisibleRootMaxHoistLevels(levels *int) BuildOption {
	return func(c *config) { c.visibleRootMaxHoistLevels = levels }
}

// WithVisibleRootIgnoreVirtualFiles excludes virtual files from the
// "no file children" test during hoisting (spec.md §4.8). Default true.
func WithVisibleRootIgnoreVirtualFiles(v bool) BuildOption {
	return func(c *config) { c.visibleRootIgnoreVirtualFiles = v }
}

// WithMergeVirtualIntoRealFolders enables adoption between real and
// virtual folders sharing a name at the same parent (spec.md §4.4). Default true.
func WithMergeVirtualIntoRealFolders(v bool) BuildOption {
	return func(c *config) { c.mergeVirtualIntoRealFolders = v }
}

// WithCaseInsensitivePaths controls case folding for dedup, ancestry, and merge tests. Default true.
func WithCaseInsensitivePaths(v bool) BuildOption {
	return func(c *config) { c.caseInsensitivePaths = v }
}

// WithUnicodeNormalize overrides the canonicalizer's Unicode normalization
// step. The default is golang.org/x/text/unicode/norm's NFC normalizer;
// pass nil to disable normalization entirely.
func WithUnicodeNormalize(fn UnicodeNormalizeFunc) BuildOption {
	return func(c *config) { c.unicodeNormalize = fn }
}

// WithAutoComputeAnchors controls whether the anchor universe is derived
// from entries/selectedDirectories/sourceRoots, or only from sourceRoots
// (legacy mode, spec.md §4.2, §9 Open Question). Default true.
func WithAutoComputeAnchors(v bool) BuildOption {
	return func(c *config) { c.autoComputeAnchors = v }
}

// WithOmitContainerRowAtRoot, when true, makes Flatten skip the visible
// root's own row and emit its children at depth 0 (spec.md §4.9). The
// visible root is the container unless hoisting moved it. The invariant
// check does not depend on this option.
func WithOmitContainerRowAtRoot(v bool) BuildOption {
	return func(c *config) { c.omitContainerRowAtRoot = v }
}

// WithLogger overrides the package's structured logger. Build never
// mutates the caller's own logrus instance (grounded on main.go's care to
// only touch logrus.StandardLogger() from the command layer, never from
// pkg/context); the default is a private, quiet (WarnLevel) logger.
func WithLogger(l *logrus.Logger) BuildOption {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
