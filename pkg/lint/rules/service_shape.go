package rules

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/yaklabco/gorblint/pkg/lint"
	"github.com/yaklabco/gorblint/pkg/pattern"
	"github.com/yaklabco/gorblint/pkg/rbast"
)

// Option keys for service-call-shape.
const (
	optServicesDirectory = "services_directory"
	optServicePaths      = "service_paths"
	optSpecPaths         = "spec_paths"
)

const (
	msgMissingClassCall = "Service objects must implement a class-level call(...) method"
	msgExtraClassMethod = "Service objects should only expose a .call class method, found: "
	msgInstanceMethod   = "Service instance method must be named 'call', found: "
	msgMethodOrder      = "Service methods must be ordered: self.call, initialize, call, private"
	msgDirectNew        = "Services should be invoked via .call, not .new"
)

//nolint:gochecknoglobals // Read-only defaults and compiled patterns.
var (
	defaultServicePaths = []string{"app/services/**/*.rb"}
	defaultSpecPaths    = []string{"spec/**", "test/**", "**/*_spec.rb"}

	selfDefs       = pattern.MustCompile(`(defs (self) ...)`)
	constDefs      = pattern.MustCompile(`(defs (const _) ...)`)
	hiddenDefs     = pattern.MustCompile(`(send nil :private_class_method $def=(defs ...))`)
	selfSClass     = pattern.MustCompile(`(sclass (self) ...)`)
	privateSection = pattern.MustCompile(`(send nil :private)`)
	constNew       = pattern.MustCompile(`(send $const=(const _) :new ...)`)
)

// methodRole classifies the methods of a service class.
type methodRole int

const (
	roleClassCall methodRole = iota
	roleInitialize
	roleInstanceCall
)

// serviceMethod is an ordering anchor found in a service class body.
type serviceMethod struct {
	role     methodRole
	node     *rbast.Node
	position int
}

// ServiceShapeRule enforces the service object convention: one class-level
// call entry point, a constructor, a single public instance call, and no
// direct instantiation from application code.
type ServiceShapeRule struct {
	lint.BaseRule
}

// NewServiceShapeRule creates the service-call-shape rule.
func NewServiceShapeRule() *ServiceShapeRule {
	return &ServiceShapeRule{
		BaseRule: lint.NewBaseRule(
			"RB002",
			"service-call-shape",
			"Service objects expose a single .call entry point and are not instantiated directly",
			[]string{"services", "structure"},
			false,
			rbast.NodeClass,
			rbast.NodeSend,
		),
	}
}

// DefaultOptions returns the rule's configurable options.
func (r *ServiceShapeRule) DefaultOptions() map[string]any {
	return map[string]any{
		optServicesDirectory: "",
		optServicePaths:      slices.Clone(defaultServicePaths),
		optSpecPaths:         slices.Clone(defaultSpecPaths),
	}
}

// Check dispatches class nodes to the shape checks and sends to the
// instantiation check.
func (r *ServiceShapeRule) Check(ctx *lint.RuleContext, node *rbast.Node) error {
	switch node.Kind {
	case rbast.NodeClass:
		return r.checkClass(ctx, node)
	case rbast.NodeSend:
		return r.checkNew(ctx, node)
	default:
		return nil
	}
}

// serviceClass is the method inventory of one class body.
type serviceClass struct {
	classMethods    []*rbast.Node
	instanceMethods []*rbast.Node
	publicEnd       int // offset of the first bare private; instance methods before it are public
}

func (r *ServiceShapeRule) checkClass(ctx *lint.RuleContext, class *rbast.Node) error {
	inServices, err := ctx.PathMatches(optServicePaths, defaultServicePaths)
	if err != nil || !inServices {
		return err
	}
	if isModuleOnly(class) || isExceptionClass(class) {
		return nil
	}

	inv := inventory(class)

	classCall := findMethod(inv.classMethods, "call")
	if classCall == nil {
		ctx.Report(lint.NewDiagnostic(r.ID(), class, msgMissingClassCall).Build())
		return nil
	}

	for _, method := range inv.classMethods {
		if method.Name != "call" {
			ctx.Report(lint.NewDiagnostic(r.ID(), method, msgExtraClassMethod+method.Name).Build())
		}
	}

	for _, method := range inv.instanceMethods {
		if method.Start >= inv.publicEnd {
			break
		}
		if method.Name != "initialize" && method.Name != "call" {
			ctx.Report(lint.NewDiagnostic(r.ID(), method, msgInstanceMethod+method.Name).Build())
		}
	}

	anchors := []serviceMethod{{role: roleClassCall, node: classCall, position: classCall.Start}}
	if ctor := findMethod(inv.instanceMethods, "initialize"); ctor != nil {
		anchors = append(anchors, serviceMethod{role: roleInitialize, node: ctor, position: ctor.Start})
	}
	if call := findMethod(inv.instanceMethods, "call"); call != nil {
		anchors = append(anchors, serviceMethod{role: roleInstanceCall, node: call, position: call.Start})
	}
	if misplaced := firstMisordered(anchors); misplaced != nil {
		ctx.Report(lint.NewDiagnostic(r.ID(), misplaced, msgMethodOrder).Build())
	}

	return nil
}

// inventory collects the class-level and instance methods declared directly
// in the class body, including defs inside class << self and defs wrapped in
// private_class_method.
func inventory(class *rbast.Node) serviceClass {
	inv := serviceClass{publicEnd: class.End}
	for _, stmt := range class.Body() {
		switch {
		case stmt.Kind == rbast.NodeDef:
			inv.instanceMethods = append(inv.instanceMethods, stmt)
		case stmt.Kind == rbast.NodeDefs:
			if isClassLevel(stmt, class) {
				inv.classMethods = append(inv.classMethods, stmt)
			}
		case pattern.Matches(hiddenDefs, stmt):
			caps, _ := pattern.Match(hiddenDefs, stmt)
			if def := caps["def"]; isClassLevel(def, class) {
				inv.classMethods = append(inv.classMethods, def)
			}
		case pattern.Matches(selfSClass, stmt):
			for _, inner := range stmt.Body() {
				if inner.Is(rbast.NodeDef, rbast.NodeDefs) {
					inv.classMethods = append(inv.classMethods, inner)
				}
			}
		case pattern.Matches(privateSection, stmt):
			if inv.publicEnd == class.End {
				inv.publicEnd = stmt.Start
			}
		}
	}
	return inv
}

// isClassLevel reports whether the singleton method def is defined on class,
// either as def self.x or as def ClassName.x.
func isClassLevel(def, class *rbast.Node) bool {
	switch {
	case pattern.Matches(selfDefs, def):
		return true
	case pattern.Matches(constDefs, def):
		name := strings.TrimPrefix(def.Receiver.Name, "::")
		return name == class.Name || strings.HasSuffix(class.Name, "::"+name)
	default:
		return false
	}
}

func findMethod(methods []*rbast.Node, name string) *rbast.Node {
	for _, method := range methods {
		if method.Name == name {
			return method
		}
	}
	return nil
}

// firstMisordered compares the source order of the present anchors with
// the canonical order restricted to them, and returns the first anchor in
// source order that sits in the wrong slot.
func firstMisordered(anchors []serviceMethod) *rbast.Node {
	actual := slices.Clone(anchors)
	slices.SortFunc(actual, func(a, b serviceMethod) int { return a.position - b.position })
	canonical := slices.Clone(anchors)
	slices.SortFunc(canonical, func(a, b serviceMethod) int { return int(a.role) - int(b.role) })

	for i := range actual {
		if actual[i].role != canonical[i].role {
			return actual[i].node
		}
	}
	return nil
}

// isModuleOnly reports whether the class body holds nothing but module
// definitions.
func isModuleOnly(class *rbast.Node) bool {
	body := class.Body()
	if len(body) == 0 {
		return false
	}
	for _, stmt := range body {
		if stmt.Kind != rbast.NodeModule {
			return false
		}
	}
	return true
}

// isExceptionClass reports whether the superclass looks like an error type.
func isExceptionClass(class *rbast.Node) bool {
	super := class.Superclass
	if super == nil || super.Kind != rbast.NodeConst {
		return false
	}
	name := strings.TrimPrefix(super.Name, "::")
	return strings.Contains(name, "Error") || name == "Exception"
}

// checkNew flags Const.new when Const names an existing service file.
func (r *ServiceShapeRule) checkNew(ctx *lint.RuleContext, send *rbast.Node) error {
	caps, ok := pattern.Match(constNew, send)
	if !ok {
		return nil
	}

	dir := ctx.OptionString(optServicesDirectory, "")
	if dir == "" {
		return nil
	}

	inSpec, err := ctx.PathMatches(optSpecPaths, defaultSpecPaths)
	if err != nil || inSpec {
		return err
	}

	constName := strings.TrimPrefix(caps["const"].Name, "::")
	if insideOwnClassCall(send, constName) {
		return nil
	}
	if !serviceFileExists(ctx.ResolvePath(dir), constName) {
		return nil
	}

	ctx.Report(lint.NewDiagnostic(r.ID(), send, msgDirectNew).
		WithSuggestion(constName + ".call(...)").
		Build())
	return nil
}

// insideOwnClassCall reports whether node sits inside the class-level call
// method of the class named constName.
func insideOwnClassCall(node *rbast.Node, constName string) bool {
	method := node.Enclosing(rbast.NodeDef, rbast.NodeDefs)
	if method == nil || method.Name != "call" {
		return false
	}

	class := method.Enclosing(rbast.NodeClass)
	if class == nil {
		return false
	}

	switch {
	case method.Kind == rbast.NodeDefs && isClassLevel(method, class):
	case method.Kind == rbast.NodeDef && method.Parent != nil && pattern.Matches(selfSClass, method.Parent):
	default:
		return false
	}
	qualified := qualifiedName(class)
	return constName == qualified || constName == class.Name || strings.HasSuffix(qualified, "::"+constName)
}

// qualifiedName joins the names of the enclosing modules and classes.
func qualifiedName(class *rbast.Node) string {
	parts := []string{class.Name}
	for scope := range class.Ancestors() {
		if scope.Is(rbast.NodeClass, rbast.NodeModule) && scope.Name != "" {
			parts = append(parts, scope.Name)
		}
	}
	slices.Reverse(parts)
	return strings.Join(parts, "::")
}

// serviceFileExists maps Admin::CreateUser to <dir>/admin/create_user.rb.
// Any stat failure means the file does not exist.
func serviceFileExists(dir, constName string) bool {
	segments := strings.Split(constName, "::")
	for i, segment := range segments {
		segments[i] = underscore(segment)
	}
	path := filepath.Join(dir, filepath.Join(segments...)+".rb")

	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// underscore converts a CamelCase constant segment to snake_case:
// CreateUser -> create_user, HTTPClient -> http_client, V2Sync -> v2_sync.
func underscore(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(name) + 4)

	for i, cur := range runes {
		if unicode.IsUpper(cur) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(cur))
	}
	return b.String()
}
