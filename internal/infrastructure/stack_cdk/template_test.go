package stack_cdk

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/stretchr/testify/require"
)

type template map[string]interface{}

func templateOf(t *testing.T, stack awscdk.Stack) template {
	t.Helper()
	raw := assertions.Template_FromStack(stack, nil).ToJSON()
	require.NotNil(t, raw)
	return template(*raw)
}

// resources returns the logical ids and properties of every resource of typ.
func (tp template) resources(typ string) map[string]map[string]interface{} {
	out := map[string]map[string]interface{}{}
	res, _ := tp["Resources"].(map[string]interface{})
	for id, r := range res {
		m, _ := r.(map[string]interface{})
		if m["Type"] != typ {
			continue
		}
		props, _ := m["Properties"].(map[string]interface{})
		out[id] = props
	}
	return out
}

func list(v interface{}) []interface{} {
	switch x := v.(type) {
	case []interface{}:
		return x
	case nil:
		return nil
	default:
		return []interface{}{x}
	}
}

func field(v interface{}, key string) interface{} {
	m, _ := v.(map[string]interface{})
	return m[key]
}

// text flattens an intrinsic into a readable string: literals are kept,
// Ref becomes ${Name}, Fn::Join is concatenated.
func text(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case map[string]interface{}:
		if ref, ok := x["Ref"].(string); ok {
			return "${" + ref + "}"
		}
		if join, ok := x["Fn::Join"].([]interface{}); ok && len(join) == 2 {
			sep, _ := join[0].(string)
			parts := make([]string, 0)
			for _, p := range list(join[1]) {
				parts = append(parts, text(p))
			}
			return strings.Join(parts, sep)
		}
	}
	return fmt.Sprint(v)
}
