package main

import (
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsapigateway"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

type VolleyStackProps struct {
	awscdk.StackProps
}

func NewVolleyStack(scope constructs.Construct, id string, props *VolleyStackProps) awscdk.Stack {
	var stackProps awscdk.StackProps
	if props != nil {
		stackProps = props.StackProps
	}

	stack := awscdk.NewStack(scope, &id, &stackProps)

	env := map[string]*string{
		"APP":       jsii.String("prod"),
		"LOG_LEVEL": jsii.String(envOr("LOG_LEVEL", "info")),
	}
	// passed through from the deploying shell when set
	for _, key := range []string{"POSTGRES_DSN", "SIM_DISTRIBUTION", "SIM_TIE_BREAK", "SIM_OPPONENT_BASE", "SIM_OPPONENT_SPREAD", "SQUAD_BENCH_SIZE", "SQUAD_STRICT_POSITIONS"} {
		if v := os.Getenv(key); v != "" {
			env[key] = jsii.String(v)
		}
	}

	lambdaFn := awslambda.NewFunction(stack, jsii.String("VolleyApi"), &awslambda.FunctionProps{
		Runtime:     awslambda.Runtime_PROVIDED_AL2023(),
		Handler:     jsii.String("bootstrap"),
		Code:        awslambda.Code_FromAsset(jsii.String("../dist"), nil),
		MemorySize:  jsii.Number(256),
		Timeout:     awscdk.Duration_Seconds(jsii.Number(30)),
		Environment: &env,
	})

	api := awsapigateway.NewLambdaRestApi(stack, jsii.String("VolleyApiGateway"), &awsapigateway.LambdaRestApiProps{
		Handler: lambdaFn,
	})

	awscdk.NewCfnOutput(stack, jsii.String("ApiUrl"), &awscdk.CfnOutputProps{Value: api.Url()})

	return stack
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	app := awscdk.NewApp(nil)
	NewVolleyStack(app, "VolleyStack", &VolleyStackProps{})
	app.Synth(nil)
}
