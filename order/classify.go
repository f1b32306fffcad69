package order

import "github.com/dhamidi/typeorder/java/parser"

const (
	DefaultCheckName             = "TypeMemberOrder"
	DefaultSuppressionAnnotation = "SuppressWarnings"
	DefaultLifecycleAnnotation   = "Nested"
)

// Config names the markers the classifier recognises. Annotations are
// matched by simple name only.
type Config struct {
	// CheckName is the identifier a suppression annotation must list.
	CheckName string
	// SuppressionAnnotation pins a member (or skips a whole type) when it
	// lists CheckName among its string arguments.
	SuppressionAnnotation string
	// LifecycleAnnotation marks a nested type that belongs among the methods.
	LifecycleAnnotation string
}

func DefaultConfig() Config {
	return Config{
		CheckName:             DefaultCheckName,
		SuppressionAnnotation: DefaultSuppressionAnnotation,
		LifecycleAnnotation:   DefaultLifecycleAnnotation,
	}
}

// Suppresses reports whether the declaration carries a suppression
// annotation naming the check.
func (c Config) Suppresses(decl *parser.Node) bool {
	for _, ann := range decl.Annotations() {
		if ann.AnnotationName() != c.SuppressionAnnotation {
			continue
		}
		for _, arg := range ann.StringArguments() {
			if arg == c.CheckName {
				return true
			}
		}
	}
	return false
}

func (c Config) hasLifecycleMarker(decl *parser.Node) bool {
	for _, ann := range decl.Annotations() {
		if ann.AnnotationName() == c.LifecycleAnnotation {
			return true
		}
	}
	return false
}

type Classification struct {
	Decl              Decl
	Kind              Kind
	Suppressed        bool
	LifecycleOverride bool
}

// EffectiveKind is the kind the member sorts as.
func (c Classification) EffectiveKind() Kind {
	if c.LifecycleOverride {
		return Method
	}
	return c.Kind
}

// Classify maps a body member to its ordering category. A suppressed member
// never gets a lifecycle override: it is pinned and its category is moot.
func Classify(n *parser.Node, scope Scope, cfg Config) Classification {
	decl := NewDecl(n, scope)
	c := Classification{
		Decl:       decl,
		Kind:       kindOf(decl),
		Suppressed: cfg.Suppresses(n),
	}
	if c.Kind == NestedType && !c.Suppressed {
		c.LifecycleOverride = cfg.hasLifecycleMarker(n)
	}
	return c
}

func kindOf(decl Decl) Kind {
	switch d := decl.(type) {
	case FieldDecl:
		if d.Static {
			return StaticField
		}
		return InstanceField
	case InitializerDecl:
		if d.Static {
			return StaticInitializer
		}
		return InstanceInitializer
	case ConstructorDecl:
		return Constructor
	case MethodDecl:
		return Method
	case TypeDecl:
		return NestedType
	}
	return Method
}
