/*
Package definition describes form layouts as data.

A Definition is usually written in YAML (JSON is accepted as well):

	id: signup
	fields:
	  - name: email
	    value: ""
	    rules: [required, "pattern:^[^@]+@[^@]+$"]
	  - name: address
	    kind: group
	    fields:
	      - name: city
	      - name: zip
	        enabled: false
	  - name: submit
	    kind: action
	    label: Send
	    handler: validate

Build turns a Definition into a form.Group, wiring rules as validators.
Action handlers are looked up by name in the registry given to WithRegistry.
*/
package definition
