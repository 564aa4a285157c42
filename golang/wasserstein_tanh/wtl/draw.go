package wtl

import (
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

//DrawNetwork builds a graphviz graph of the classifier: one box per input
//feature labeled with its alpha, one node for the hidden layer and one for
//the output head.
func DrawNetwork(alphas []float64, hiddenSize, classes int) (*graphviz.Graphviz, *cgraph.Graph) {
	graphViz := graphviz.New()
	graph, err := graphViz.Graph()
	HandleError(err)

	hiddenNode, err := graph.CreateNode("hidden")
	HandleError(err)
	hiddenNode.Set("label", fmt.Sprintf("tanh dense\n%d units", hiddenSize))

	outputNode, err := graph.CreateNode("output")
	HandleError(err)
	outputNode.Set("label", fmt.Sprintf("softmax\n%d classes", classes))
	outputNode.Set("shape", "box")

	for q, alpha := range alphas {
		inputNode, err := graph.CreateNode(fmt.Sprintf("x_%d", q))
		HandleError(err)
		inputNode.Set("label", fmt.Sprintf("x_%d\nalpha = %6.4f", q, alpha))
		inputNode.Set("shape", "box")
		_, err = graph.CreateEdge("", inputNode, hiddenNode)
		HandleError(err)
	}

	_, err = graph.CreateEdge("", hiddenNode, outputNode)
	HandleError(err)

	return graphViz, graph
}

//RenderNetwork renders the classifier diagram into a figure file.
func RenderNetwork(alphas []float64, hiddenSize, classes int, figureType, filename string) {
	graphvizType := map[string]graphviz.Format{
		"png": graphviz.PNG,
		"svg": graphviz.SVG,
		"jpg": graphviz.JPG,
	}[figureType]

	graphViz, graph := DrawNetwork(alphas, hiddenSize, classes)
	HandleError(graphViz.RenderFilename(graph, graphvizType, filename))
}
