package app

import (
	"fmt"
	"net/http"
	"strings"

	module "github.com/louisbranch/pageshell/internal/services/web/module"
	"github.com/louisbranch/pageshell/internal/services/web/platform/httpx"
	"github.com/louisbranch/pageshell/internal/services/web/routepath"
)

// ComposeInput carries module groups and shared composition contracts.
type ComposeInput struct {
	PageModules         []module.Module
	APIModules          []module.Module
	RequestSchemePolicy httpx.SchemePolicy
}

// Compose builds a root HTTP handler from module groups. API modules mount
// under /api/ and reject cross-origin mutations.
func Compose(input ComposeInput) (http.Handler, error) {
	root := http.NewServeMux()
	seen := make(map[string]string)

	for _, feature := range input.PageModules {
		if feature == nil {
			return nil, fmt.Errorf("page module is nil")
		}
		if err := mountPageModule(root, feature, seen); err != nil {
			return nil, err
		}
	}

	wrap := httpx.SameOrigin(input.RequestSchemePolicy)
	for _, feature := range input.APIModules {
		if feature == nil {
			return nil, fmt.Errorf("api module is nil")
		}
		if err := mountAPIModule(root, feature, seen, wrap); err != nil {
			return nil, err
		}
	}

	return root, nil
}

func mountModule(
	root *http.ServeMux,
	feature module.Module,
	mount module.Mount,
	prefix string,
	seen map[string]string,
	wrap httpx.Middleware,
) error {
	if root == nil || feature == nil {
		return nil
	}
	if previous, ok := seen[prefix]; ok {
		return fmt.Errorf("module %q duplicates prefix %q owned by module %q", feature.ID(), prefix, previous)
	}
	seen[prefix] = feature.ID()

	handler := mount.Handler
	if wrap != nil {
		handler = wrap(handler)
	}
	root.Handle(prefix, handler)
	return nil
}

func mountPageModule(root *http.ServeMux, feature module.Module, seen map[string]string) error {
	mount, prefix, err := resolveMount(feature)
	if err != nil {
		return err
	}
	if isAPIPrefix(prefix) {
		return fmt.Errorf("module %q has api prefix %q in page group", feature.ID(), prefix)
	}
	return mountModule(root, feature, mount, prefix, seen, nil)
}

func mountAPIModule(root *http.ServeMux, feature module.Module, seen map[string]string, wrap httpx.Middleware) error {
	mount, prefix, err := resolveMount(feature)
	if err != nil {
		return err
	}
	if !isAPIPrefix(prefix) {
		return fmt.Errorf("module %q must mount under %s, got %q", feature.ID(), routepath.APIPrefix, prefix)
	}
	if err := mountModule(root, feature, mount, prefix, seen, wrap); err != nil {
		return err
	}
	if alias := slashlessPrefixAlias(prefix); alias != "" {
		if err := mountModule(root, feature, mount, alias, seen, wrap); err != nil {
			return err
		}
	}
	return nil
}

func isAPIPrefix(prefix string) bool {
	return strings.HasPrefix(prefix, routepath.APIPrefix) && prefix != routepath.APIPrefix
}

func resolveMount(feature module.Module) (module.Mount, string, error) {
	if feature == nil {
		return module.Mount{}, "", fmt.Errorf("module is nil")
	}
	mount, err := feature.Mount()
	if err != nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	prefix := mount.Prefix
	if err := validatePrefix(prefix); err != nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q has invalid prefix %q: %w", feature.ID(), mount.Prefix, err)
	}
	if mount.Handler == nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	return mount, prefix, nil
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("prefix is required")
	}
	if strings.TrimSpace(prefix) != prefix {
		return fmt.Errorf("prefix must not include surrounding whitespace")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("prefix must begin with /")
	}
	if !strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("prefix must end with /")
	}
	return nil
}

// slashlessPrefixAlias lets "/api/posts" reach the module mounted at
// "/api/posts/" without a redirect, which would turn a POST into a GET.
func slashlessPrefixAlias(prefix string) string {
	if !strings.HasSuffix(prefix, "/") {
		return ""
	}
	alias := strings.TrimSuffix(prefix, "/")
	if alias == "" {
		return ""
	}
	return alias
}
