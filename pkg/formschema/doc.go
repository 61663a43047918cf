// Package formschema loads form declarations from YAML or JSON documents and
// from OpenAPI request bodies annotated with x-courierform extensions.
//
// A declaration document maps form names to their sections:
//
//	forms:
//	  courier-order:
//	    sections:
//	      - name: receiver
//	        title: Receiver
//	        fields:
//	          - key: phone
//	            validate: phone
//
// Every loaded declaration is normalised and checked with
// formstate.Declaration.Validate before it is returned.
package formschema
